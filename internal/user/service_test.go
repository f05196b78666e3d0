package user_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/core/events"
	"github.com/frahmantamala/identity-access/internal/user"
	userMemory "github.com/frahmantamala/identity-access/internal/user/memory"
	"github.com/frahmantamala/identity-access/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

var _ = Describe("UserService", func() {
	var (
		ctx       context.Context
		service   *user.Service
		publisher *recordingPublisher
	)

	BeforeEach(func() {
		ctx = context.Background()
		publisher = &recordingPublisher{}
		service = user.NewService(userMemory.NewUserRepository(), bcryptHasher{}, publisher, logger.Discard())
	})

	Describe("CreateUser", func() {
		It("should create Tomas as an inactive user with a hashed password", func() {
			u, err := service.CreateUser(ctx, "Tomas", "tomas01@correo.com", "secret01")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Status).To(Equal(user.StatusInactive))
			Expect(u.PasswordHash).NotTo(Equal("secret01"))
			Expect(u.PasswordHash).NotTo(BeEmpty())

			ok, err := service.VerifyUserPassword(ctx, "Tomas", "secret01")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			Expect(publisher.types()).To(Equal([]string{events.EventTypeUserCreated}))
		})

		It("should reject a second user with the same username", func() {
			_, err := service.CreateUser(ctx, "Tomas", "tomas01@correo.com", "secret01")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateUser(ctx, "Tomas", "otro@correo.com", "secret01")
			Expect(errors.Is(err, internal.ErrUserAlreadyExists)).To(BeTrue())
		})

		It("should reject a second user with the same email", func() {
			_, err := service.CreateUser(ctx, "Tomas", "tomas01@correo.com", "secret01")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateUser(ctx, "Juan", "tomas01@correo.com", "secret01")
			Expect(errors.Is(err, internal.ErrEmailAlreadyRegistered)).To(BeTrue())

			all, _ := service.GetAllUsers(ctx)
			Expect(all).To(HaveLen(1))
		})

		It("should keep emails unique under concurrent registration", func() {
			var (
				wg       sync.WaitGroup
				mu       sync.Mutex
				failures []error
			)
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(n int) {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := service.CreateUser(ctx, fmt.Sprintf("user%02d", n), "dup@correo.com", "secret01")
					if err != nil {
						mu.Lock()
						failures = append(failures, err)
						mu.Unlock()
					}
				}(i)
			}
			wg.Wait()

			all, err := service.GetAllUsers(ctx)
			Expect(err).NotTo(HaveOccurred())
			sharing := 0
			for _, u := range all {
				if u.Email == "dup@correo.com" {
					sharing++
				}
			}
			Expect(sharing).To(Equal(1))
			Expect(failures).To(HaveLen(19))
			for _, err := range failures {
				Expect(errors.Is(err, internal.ErrEmailAlreadyRegistered)).To(BeTrue())
			}
		})

		It("should validate the password length before hashing", func() {
			_, err := service.CreateUser(ctx, "Juan", "juan@correo.com", "12345")
			Expect(errors.Is(err, internal.ErrUserInvalidPassword)).To(BeTrue())
		})

		It("should validate username and email", func() {
			_, err := service.CreateUser(ctx, "  ", "juan@correo.com", "secret01")
			Expect(errors.Is(err, internal.ErrUserInvalidUsername)).To(BeTrue())

			_, err = service.CreateUser(ctx, "Juan", "juan@", "secret01")
			Expect(errors.Is(err, internal.ErrUserInvalidEmail)).To(BeTrue())
		})
	})

	Describe("with existing users", func() {
		BeforeEach(func() {
			_, err := service.CreateUser(ctx, "Tomas", "tomas01@correo.com", "secret01")
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateUser(ctx, "Juan", "juan@correo.com", "secret02")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should list users in insertion order", func() {
			all, err := service.GetAllUsers(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))
			Expect(all[0].Username).To(Equal("Tomas"))
			Expect(all[1].Username).To(Equal("Juan"))
		})

		It("should report an unknown user as not found", func() {
			_, err := service.GetUser(ctx, "Axel")
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())

			found, err := service.FindUser(ctx, "Axel")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})

		It("should treat usernames as case sensitive", func() {
			_, err := service.GetUser(ctx, "tomas")
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})

		It("should look users up by id", func() {
			tomas, _ := service.GetUser(ctx, "Tomas")
			byID, err := service.GetUserByID(ctx, tomas.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(byID.Username).To(Equal("Tomas"))

			_, err = service.GetUserByID(ctx, "missing")
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})

		Describe("UpdateEmail", func() {
			It("should reject the current email as a no-op", func() {
				_, err := service.UpdateEmail(ctx, "Tomas", "tomas01@correo.com")
				Expect(errors.Is(err, internal.ErrSameEmail)).To(BeTrue())
			})

			It("should reject an email owned by another user", func() {
				_, err := service.UpdateEmail(ctx, "Tomas", "juan@correo.com")
				Expect(errors.Is(err, internal.ErrEmailAlreadyRegistered)).To(BeTrue())
			})

			It("should let only one of two racing users claim the same email", func() {
				var wg sync.WaitGroup
				results := make([]error, 2)
				for i, name := range []string{"Tomas", "Juan"} {
					wg.Add(1)
					go func(i int, name string) {
						defer GinkgoRecover()
						defer wg.Done()
						_, results[i] = service.UpdateEmail(ctx, name, "shared@correo.com")
					}(i, name)
				}
				wg.Wait()

				succeeded := 0
				for _, err := range results {
					if err == nil {
						succeeded++
						continue
					}
					Expect(errors.Is(err, internal.ErrEmailAlreadyRegistered)).To(BeTrue())
				}
				Expect(succeeded).To(Equal(1))
			})

			It("should reject a malformed email", func() {
				_, err := service.UpdateEmail(ctx, "Tomas", "tomas")
				Expect(errors.Is(err, internal.ErrUserInvalidEmail)).To(BeTrue())
			})

			It("should update and refresh updated_at", func() {
				before, _ := service.GetUser(ctx, "Tomas")
				updated, err := service.UpdateEmail(ctx, "Tomas", "tomas02@correo.com")
				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Email).To(Equal("tomas02@correo.com"))
				Expect(updated.UpdatedAt.After(before.UpdatedAt)).To(BeTrue())

				owner, _ := service.GetUser(ctx, "Tomas")
				Expect(owner.Email).To(Equal("tomas02@correo.com"))
			})

			It("should report an unknown user", func() {
				_, err := service.UpdateEmail(ctx, "Axel", "axel@correo.com")
				Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
			})
		})

		Describe("UpdateUsername", func() {
			It("should reject the current username as a no-op", func() {
				_, err := service.UpdateUsername(ctx, "Tomas", "Tomas")
				Expect(errors.Is(err, internal.ErrSameUsername)).To(BeTrue())
			})

			It("should reject a username held by someone else", func() {
				_, err := service.UpdateUsername(ctx, "Tomas", "Juan")
				Expect(errors.Is(err, internal.ErrUserAlreadyExists)).To(BeTrue())
			})

			It("should re-index the user under the new username", func() {
				renamed, err := service.UpdateUsername(ctx, "Tomas", "Tomas2")
				Expect(err).NotTo(HaveOccurred())
				Expect(renamed.Username).To(Equal("Tomas2"))

				_, err = service.GetUser(ctx, "Tomas")
				Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())

				again, err := service.GetUser(ctx, "Tomas2")
				Expect(err).NotTo(HaveOccurred())
				Expect(again.ID).To(Equal(renamed.ID))

				all, _ := service.GetAllUsers(ctx)
				Expect(all[0].Username).To(Equal("Tomas2"))
			})

			It("should reject a blank username", func() {
				_, err := service.UpdateUsername(ctx, "Tomas", "   ")
				Expect(errors.Is(err, internal.ErrUserInvalidUsername)).To(BeTrue())
			})
		})

		Describe("UpdatePassword", func() {
			It("should require the current password", func() {
				_, err := service.UpdatePassword(ctx, "Tomas", "wrong", "newsecret")
				Expect(errors.Is(err, internal.ErrWrongPassword)).To(BeTrue())
			})

			It("should reject a short new password", func() {
				_, err := service.UpdatePassword(ctx, "Tomas", "secret01", "123")
				Expect(errors.Is(err, internal.ErrUserInvalidPassword)).To(BeTrue())
			})

			It("should re-hash the new password", func() {
				_, err := service.UpdatePassword(ctx, "Tomas", "secret01", "newsecret")
				Expect(err).NotTo(HaveOccurred())

				ok, _ := service.VerifyUserPassword(ctx, "Tomas", "newsecret")
				Expect(ok).To(BeTrue())
				ok, _ = service.VerifyUserPassword(ctx, "Tomas", "secret01")
				Expect(ok).To(BeFalse())
			})
		})

		Describe("status changes", func() {
			It("should activate, suspend, block and deactivate", func() {
				u, err := service.ActivateUser(ctx, "Tomas")
				Expect(err).NotTo(HaveOccurred())
				Expect(u.Status).To(Equal(user.StatusActive))
				Expect(u.IsActive()).To(BeTrue())

				u, err = service.SuspendUser(ctx, "Tomas")
				Expect(err).NotTo(HaveOccurred())
				Expect(u.Status).To(Equal(user.StatusSuspended))

				u, err = service.BlockUser(ctx, "Tomas")
				Expect(err).NotTo(HaveOccurred())
				Expect(u.Status).To(Equal(user.StatusBlocked))
				Expect(u.IsActive()).To(BeFalse())

				u, err = service.DeactivateUser(ctx, "Tomas")
				Expect(err).NotTo(HaveOccurred())
				Expect(u.Status).To(Equal(user.StatusInactive))

				Expect(publisher.types()).To(ContainElement(events.EventTypeUserStatusChanged))
			})

			It("should reject an unknown status", func() {
				_, err := service.ChangeStatus(ctx, "Tomas", "archived")
				Expect(errors.Is(err, internal.ErrUserInvalidStatus)).To(BeTrue())
			})

			It("should report an unknown user", func() {
				_, err := service.BlockUser(ctx, "Axel")
				Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
			})
		})

		Describe("DeleteUser", func() {
			It("should remove the user and emit an event", func() {
				Expect(service.DeleteUser(ctx, "Juan")).To(Succeed())

				_, err := service.GetUser(ctx, "Juan")
				Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
				Expect(publisher.types()).To(ContainElement(events.EventTypeUserDeleted))
			})

			It("should fail for an unknown user", func() {
				err := service.DeleteUser(ctx, "Axel")
				Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
			})
		})

		It("should report wrong password candidates without mutating", func() {
			before, _ := service.GetUser(ctx, "Juan")
			ok, err := service.VerifyUserPassword(ctx, "Juan", "nope")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())

			after, _ := service.GetUser(ctx, "Juan")
			Expect(after.UpdatedAt).To(Equal(before.UpdatedAt))
		})
	})
})
