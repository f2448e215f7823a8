package actors

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"psiconnect/psychologist"
	"psiconnect/session"
)

// Actors drive the real services in tight loops during the stress run.
// Operational failures (in-flight rejections, duplicate emails, chaos-killed
// backends) are expected under contention and are swallowed; only context
// cancellation stops an actor.

var emailSeq atomic.Int64

// Provisioner repeatedly creates practitioners with unique emails.
func Provisioner(ctx context.Context, svc *psychologist.Service, prefix string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		n := emailSeq.Add(1)
		params := psychologist.ProvisionParams{
			Name:        fmt.Sprintf("Stress Psy %d", n),
			SocialName:  fmt.Sprintf("Psy %d", n),
			CRP:         fmt.Sprintf("06/%06d", n),
			Phone:       "11 90000-0000",
			Email:       fmt.Sprintf("%s+%d@example.com", prefix, n),
			Bio:         "Stress profile.",
			Specialties: []string{"TCC"},
			Password:    "p123456",
		}
		if rand.Intn(2) == 0 {
			params.Photo = []byte(fmt.Sprintf("photo-%d", n))
		}
		_, _ = svc.Provision(ctx, params)

		time.Sleep(time.Duration(10+rand.Intn(30)) * time.Millisecond)
	}
}

// Updater picks a random profile and replaces its photo and phone.
func Updater(ctx context.Context, svc *psychologist.Service, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		profiles, err := svc.List(ctx)
		if err == nil && len(profiles) > 0 {
			p := profiles[rand.Intn(len(profiles))]
			_ = svc.Update(ctx, p.ID, psychologist.UpdateParams{
				SocialName:  p.SocialName,
				CRP:         p.CRP,
				Phone:       fmt.Sprintf("11 9%04d-%04d", rand.Intn(10000), rand.Intn(10000)),
				Bio:         p.Bio,
				Specialties: p.Specialties,
			}, []byte(fmt.Sprintf("photo-%d", rand.Int63())))
		}

		time.Sleep(time.Duration(20+rand.Intn(40)) * time.Millisecond)
	}
}

// Deleter removes a random profile now and then.
func Deleter(ctx context.Context, svc *psychologist.Service, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		profiles, err := svc.List(ctx)
		if err == nil && len(profiles) > 1 {
			_ = svc.Delete(ctx, profiles[rand.Intn(len(profiles))].ID)
		}

		time.Sleep(time.Duration(150+rand.Intn(150)) * time.Millisecond)
	}
}

// SessionRacer hammers sign-in/sign-out against the session context so role
// resolutions constantly race transitions. After each sign-out the session
// must read anonymous immediately.
func SessionRacer(ctx context.Context, sess *session.Context, email, password string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		if err := sess.SignIn(ctx, email, password); err != nil && errors.Is(err, context.Canceled) {
			return err
		}
		time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)

		sess.SignOut()
		if snap := sess.Snapshot(); snap.Identity != nil || snap.Role != session.RoleAnonymous {
			return fmt.Errorf("actors: sign-out left session %+v", snap)
		}

		time.Sleep(time.Duration(10+rand.Intn(30)) * time.Millisecond)
	}
}
