package role_test

import (
	"context"
	"errors"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/role"
	roleMemory "github.com/frahmantamala/identity-access/internal/role/memory"
	"github.com/frahmantamala/identity-access/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RoleService", func() {
	var (
		ctx     context.Context
		service *role.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		service = role.NewService(roleMemory.NewRoleRepository(), logger.Discard())
	})

	It("should normalize the name on create", func() {
		created, err := service.CreateRole(ctx, "  ADMIN  ", "  Full access ")
		Expect(err).NotTo(HaveOccurred())
		Expect(created.Name).To(Equal("admin"))
		Expect(created.Description).To(Equal("Full access"))
		Expect(created.ID).NotTo(BeEmpty())

		found, err := service.GetRole(ctx, "Admin")
		Expect(err).NotTo(HaveOccurred())
		Expect(found.ID).To(Equal(created.ID))
	})

	It("should reject an empty name", func() {
		_, err := service.CreateRole(ctx, "   ", "")
		Expect(errors.Is(err, internal.ErrRoleInvalidName)).To(BeTrue())
	})

	It("should reject a blank name on lookup, update and delete before touching storage", func() {
		_, err := service.GetRole(ctx, "  ")
		Expect(errors.Is(err, internal.ErrRoleInvalidName)).To(BeTrue())

		description := "anything"
		_, err = service.UpdateDescription(ctx, "", &description)
		Expect(errors.Is(err, internal.ErrRoleInvalidName)).To(BeTrue())

		err = service.DeleteRole(ctx, " ")
		Expect(errors.Is(err, internal.ErrRoleInvalidName)).To(BeTrue())
	})

	It("should reject a duplicate normalized name", func() {
		_, err := service.CreateRole(ctx, "admin", "")
		Expect(err).NotTo(HaveOccurred())

		_, err = service.CreateRole(ctx, " Admin", "")
		Expect(errors.Is(err, internal.ErrRoleAlreadyExists)).To(BeTrue())
	})

	It("should list roles in insertion order", func() {
		for _, name := range []string{"viewer", "admin", "editor"} {
			_, err := service.CreateRole(ctx, name, "")
			Expect(err).NotTo(HaveOccurred())
		}
		all, err := service.GetAllRoles(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(3))
		Expect([]string{all[0].Name, all[1].Name, all[2].Name}).To(Equal([]string{"viewer", "admin", "editor"}))
	})

	Describe("UpdateDescription", func() {
		BeforeEach(func() {
			_, err := service.CreateRole(ctx, "admin", "old")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject a nil description", func() {
			_, err := service.UpdateDescription(ctx, "admin", nil)
			Expect(errors.Is(err, internal.ErrDescriptionRequired)).To(BeTrue())
		})

		It("should trim the new description and refresh updated_at", func() {
			before, _ := service.GetRole(ctx, "admin")
			desc := "  new  "
			updated, err := service.UpdateDescription(ctx, "ADMIN", &desc)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Description).To(Equal("new"))
			Expect(updated.UpdatedAt.After(before.UpdatedAt)).To(BeTrue())
		})

		It("should allow clearing the description", func() {
			empty := ""
			updated, err := service.UpdateDescription(ctx, "admin", &empty)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Description).To(BeEmpty())
		})

		It("should report an unknown role", func() {
			desc := "x"
			_, err := service.UpdateDescription(ctx, "ghost", &desc)
			Expect(errors.Is(err, internal.ErrRoleNotFound)).To(BeTrue())
		})
	})

	It("should delete roles and fail for unknown ones", func() {
		_, err := service.CreateRole(ctx, "admin", "")
		Expect(err).NotTo(HaveOccurred())

		Expect(service.DeleteRole(ctx, "Admin")).To(Succeed())
		found, err := service.FindRole(ctx, "admin")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeNil())

		err = service.DeleteRole(ctx, "admin")
		Expect(errors.Is(err, internal.ErrRoleNotFound)).To(BeTrue())
	})
})
