package user_test

import (
	"errors"
	"time"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("User entity", func() {
	Describe("NewUser", func() {
		It("should create an inactive user with an id and timestamps", func() {
			u, err := user.NewUser("Tomas", "tomas01@correo.com", "secret01")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.ID).NotTo(BeEmpty())
			Expect(u.Status).To(Equal(user.StatusInactive))
			Expect(u.IsActive()).To(BeFalse())
			Expect(u.Roles).To(BeEmpty())
			Expect(u.CreatedAt).NotTo(BeZero())
			Expect(u.UpdatedAt).To(Equal(u.CreatedAt))
		})

		It("should trim the username but keep its case", func() {
			u, err := user.NewUser("  Tomas ", "tomas01@correo.com", "secret01")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Username).To(Equal("Tomas"))
		})

		DescribeTable("rejecting invalid input",
			func(username, email, password string, expected error) {
				_, err := user.NewUser(username, email, password)
				Expect(errors.Is(err, expected)).To(BeTrue())
			},
			Entry("blank username", "   ", "a@b.com", "secret01", internal.ErrUserInvalidUsername),
			Entry("email without at", "juan", "juan.correo.com", "secret01", internal.ErrUserInvalidEmail),
			Entry("email without tld", "juan", "juan@correo", "secret01", internal.ErrUserInvalidEmail),
			Entry("email with one letter tld", "juan", "juan@correo.c", "secret01", internal.ErrUserInvalidEmail),
			Entry("short password", "juan", "juan@correo.com", "12345", internal.ErrUserInvalidPassword),
		)

		It("should accept plus and dots in the local part", func() {
			_, err := user.NewUser("axel", "axel.dev+test@mail.example.org", "secret01")
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("mutations", func() {
		var u *user.User

		BeforeEach(func() {
			var err error
			u, err = user.NewUser("Tomas", "tomas01@correo.com", "secret01")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should move through every status and refresh updated_at each time", func() {
			transitions := []func(){u.Activate, u.Block, u.Suspend, u.Deactivate, u.Activate}
			expected := []user.Status{user.StatusActive, user.StatusBlocked, user.StatusSuspended, user.StatusInactive, user.StatusActive}

			for i, transition := range transitions {
				before := u.UpdatedAt
				transition()
				Expect(u.Status).To(Equal(expected[i]))
				Expect(u.UpdatedAt.After(before)).To(BeTrue())
			}
			Expect(u.IsActive()).To(BeTrue())
		})

		It("should report blocked users as not active", func() {
			u.Activate()
			u.Block()
			Expect(u.Status).To(Equal(user.StatusBlocked))
			Expect(u.IsActive()).To(BeFalse())
		})

		It("should keep updated_at strictly increasing even if the clock has not moved", func() {
			u.UpdatedAt = time.Now().Add(time.Hour)
			before := u.UpdatedAt
			u.Suspend()
			Expect(u.UpdatedAt.After(before)).To(BeTrue())
		})

		It("should validate email updates", func() {
			before := u.UpdatedAt
			Expect(u.UpdateEmail("not-an-email")).To(MatchError(internal.ErrUserInvalidEmail))
			Expect(u.Email).To(Equal("tomas01@correo.com"))
			Expect(u.UpdatedAt).To(Equal(before))

			Expect(u.UpdateEmail("tomas02@correo.com")).To(Succeed())
			Expect(u.Email).To(Equal("tomas02@correo.com"))
			Expect(u.UpdatedAt.After(before)).To(BeTrue())
		})

		It("should validate username updates", func() {
			Expect(u.UpdateUsername(" ")).To(MatchError(internal.ErrUserInvalidUsername))
			Expect(u.UpdateUsername("Tomas2")).To(Succeed())
			Expect(u.Username).To(Equal("Tomas2"))
		})

		It("should validate password updates", func() {
			Expect(u.UpdatePassword("123")).To(MatchError(internal.ErrUserInvalidPassword))
			Expect(u.UpdatePassword("another-hash")).To(Succeed())
		})

		It("should map status names to transitions", func() {
			Expect(u.ApplyStatus("suspended")).To(Succeed())
			Expect(u.Status).To(Equal(user.StatusSuspended))
			Expect(u.ApplyStatus("ACTIVE")).To(Succeed())
			Expect(u.Status).To(Equal(user.StatusActive))

			err := u.ApplyStatus("deleted")
			Expect(errors.Is(err, internal.ErrUserInvalidStatus)).To(BeTrue())
			Expect(u.Status).To(Equal(user.StatusActive))
		})
	})

	Describe("converters", func() {
		It("should never expose the password hash in responses", func() {
			u, _ := user.NewUser("Juan", "juan@correo.com", "hashed-secret")
			resp := user.ToResponseWithRoles(u, []string{"admin"})
			Expect(resp.Username).To(Equal("Juan"))
			Expect(resp.Roles).To(Equal([]string{"admin"}))

			fallback := user.ToResponseWithRoles(u, nil)
			Expect(fallback.Roles).NotTo(BeNil())
			Expect(fallback.Roles).To(BeEmpty())
		})

		It("should round-trip through the data model", func() {
			u, _ := user.NewUser("Juan", "juan@correo.com", "hashed-secret")
			u.Activate()
			back := user.FromDataModel(user.ToDataModel(u))
			Expect(back.ID).To(Equal(u.ID))
			Expect(back.Status).To(Equal(user.StatusActive))
			Expect(back.PasswordHash).To(Equal("hashed-secret"))
		})

		It("should count users in list responses", func() {
			a, _ := user.NewUser("Juan", "juan@correo.com", "hashed-secret")
			b, _ := user.NewUser("Axel", "axel@correo.com", "hashed-secret")
			list := user.ToListResponse([]*user.User{a, b})
			Expect(list.Total).To(Equal(2))
			Expect(list.Users[1].Username).To(Equal("Axel"))
		})
	})
})
