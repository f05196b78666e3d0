package permission_test

import (
	"context"
	"errors"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/permission"
	permissionMemory "github.com/frahmantamala/identity-access/internal/permission/memory"
	"github.com/frahmantamala/identity-access/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PermissionService", func() {
	var (
		ctx     context.Context
		service *permission.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		service = permission.NewService(permissionMemory.NewPermissionRepository(), logger.Discard())
	})

	It("should normalize the name on create", func() {
		created, err := service.CreatePermission(ctx, "  USERS:MANAGE  ", "  Full access ")
		Expect(err).NotTo(HaveOccurred())
		Expect(created.Name).To(Equal("users:manage"))
		Expect(created.Description).To(Equal("Full access"))
		Expect(created.ID).NotTo(BeEmpty())

		found, err := service.GetPermission(ctx, "Users:Manage")
		Expect(err).NotTo(HaveOccurred())
		Expect(found.ID).To(Equal(created.ID))
	})

	It("should reject an empty name", func() {
		_, err := service.CreatePermission(ctx, "   ", "")
		Expect(errors.Is(err, internal.ErrPermissionInvalidName)).To(BeTrue())
	})

	It("should reject a blank name on lookup, update and delete before touching storage", func() {
		_, err := service.GetPermission(ctx, "  ")
		Expect(errors.Is(err, internal.ErrPermissionInvalidName)).To(BeTrue())

		description := "anything"
		_, err = service.UpdateDescription(ctx, "", &description)
		Expect(errors.Is(err, internal.ErrPermissionInvalidName)).To(BeTrue())

		err = service.DeletePermission(ctx, " ")
		Expect(errors.Is(err, internal.ErrPermissionInvalidName)).To(BeTrue())
	})

	It("should reject a duplicate normalized name", func() {
		_, err := service.CreatePermission(ctx, "users:manage", "")
		Expect(err).NotTo(HaveOccurred())

		_, err = service.CreatePermission(ctx, " Users:Manage", "")
		Expect(errors.Is(err, internal.ErrPermissionAlreadyExists)).To(BeTrue())
	})

	It("should list permissions in insertion order", func() {
		for _, name := range []string{"users:read", "users:manage", "users:write"} {
			_, err := service.CreatePermission(ctx, name, "")
			Expect(err).NotTo(HaveOccurred())
		}
		all, err := service.GetAllPermissions(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(3))
		Expect([]string{all[0].Name, all[1].Name, all[2].Name}).To(Equal([]string{"users:read", "users:manage", "users:write"}))
	})

	Describe("UpdateDescription", func() {
		BeforeEach(func() {
			_, err := service.CreatePermission(ctx, "users:manage", "old")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject a nil description", func() {
			_, err := service.UpdateDescription(ctx, "users:manage", nil)
			Expect(errors.Is(err, internal.ErrDescriptionRequired)).To(BeTrue())
		})

		It("should trim the new description and refresh updated_at", func() {
			before, _ := service.GetPermission(ctx, "users:manage")
			desc := "  new  "
			updated, err := service.UpdateDescription(ctx, "USERS:MANAGE", &desc)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Description).To(Equal("new"))
			Expect(updated.UpdatedAt.After(before.UpdatedAt)).To(BeTrue())
		})

		It("should allow clearing the description", func() {
			empty := ""
			updated, err := service.UpdateDescription(ctx, "users:manage", &empty)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Description).To(BeEmpty())
		})

		It("should report an unknown permission", func() {
			desc := "x"
			_, err := service.UpdateDescription(ctx, "ghost", &desc)
			Expect(errors.Is(err, internal.ErrPermissionNotFound)).To(BeTrue())
		})
	})

	It("should delete permissions and fail for unknown ones", func() {
		_, err := service.CreatePermission(ctx, "users:manage", "")
		Expect(err).NotTo(HaveOccurred())

		Expect(service.DeletePermission(ctx, "Users:Manage")).To(Succeed())
		found, err := service.FindPermission(ctx, "users:manage")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeNil())

		err = service.DeletePermission(ctx, "users:manage")
		Expect(errors.Is(err, internal.ErrPermissionNotFound)).To(BeTrue())
	})
})
