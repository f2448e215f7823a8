package oracles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Oracle struct {
	Name string
	SQL  string
}

// All returns the invariant checks run repeatedly during stress. Each query
// must hold at every instant, including mid-operation, so only checks that
// are true across the workflow's intermediate states belong here.
func All() []Oracle {
	return []Oracle{
		{
			// Profiles are written only after the identity exists, keyed by
			// its id, and identities are never deleted.
			Name: "O1_profile_backed_by_account",
			SQL: `SELECT d.id FROM documents d
                  WHERE d.collection = 'psychologists'
                    AND NOT EXISTS (SELECT 1 FROM accounts a WHERE a.id::text = d.id)`,
		},
		{
			// One account per email address, case-insensitive.
			Name: "O2_account_email_unique",
			SQL: `SELECT lower(email), COUNT(*) FROM accounts
                  GROUP BY lower(email) HAVING COUNT(*) > 1`,
		},
		{
			// Photo paths are derived from profile ids; a blob outside the
			// derived namespace means some writer bypassed the path scheme.
			Name: "O3_photo_path_wellformed",
			SQL: `SELECT path FROM blobs
                  WHERE path NOT LIKE 'psychologist-photos/_%'`,
		},
		{
			// A profile's photoURL, when set, always ends in the profile's
			// own id: old and new photos share the one derived path.
			Name: "O4_photo_ref_matches_id",
			SQL: `SELECT d.id FROM documents d
                  WHERE d.collection = 'psychologists'
                    AND COALESCE(d.fields->>'photoURL', '') <> ''
                    AND d.fields->>'photoURL' NOT LIKE '%/psychologist-photos/' || d.id`,
		},
	}
}

// Run executes all oracles and returns the first failure (name and sample row text) or empty name if all pass.
func Run(ctx context.Context, pool *pgxpool.Pool) (string, string, error) {
	for _, o := range All() {
		rows, err := pool.Query(ctx, o.SQL)
		if err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
		has := rows.Next()
		if has {
			vals, err := rows.Values()
			rows.Close()
			if err != nil {
				return o.Name, "", err
			}
			return o.Name, fmt.Sprintf("%v", vals), nil
		}
		rows.Close()
	}
	return "", "", nil
}
