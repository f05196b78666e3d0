package rolepermission_test

import (
	"context"
	"errors"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/core/events"
	"github.com/frahmantamala/identity-access/internal/rolepermission"
	rolepermissionMemory "github.com/frahmantamala/identity-access/internal/rolepermission/memory"
	"github.com/frahmantamala/identity-access/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RolePermissionService", func() {
	var (
		ctx     context.Context
		bus     *events.EventBus
		service *rolepermission.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		bus = events.NewEventBus(logger.Discard())
		service = rolepermission.NewService(rolepermissionMemory.NewRolePermissionRepository(), events.SyncPublisher{Bus: bus}, logger.Discard())
	})

	It("should grant and revoke permissions symmetrically", func() {
		granted, err := service.AddPermissionToRole(ctx, "Admin", " Users:Read ")
		Expect(err).NotTo(HaveOccurred())
		Expect(*granted).To(Equal(rolepermission.RolePermission{RoleID: "admin", PermissionID: "users:read"}))

		byRole, _ := service.GetPermissionsByRole(ctx, "admin")
		byPerm, _ := service.GetRolesByPermission(ctx, "users:read")
		Expect(byRole).To(HaveLen(1))
		Expect(byPerm).To(HaveLen(1))

		Expect(service.RemovePermissionFromRole(ctx, "admin", "users:read")).To(Succeed())
		byRole, _ = service.GetPermissionsByRole(ctx, "admin")
		byPerm, _ = service.GetRolesByPermission(ctx, "users:read")
		Expect(byRole).To(BeEmpty())
		Expect(byPerm).To(BeEmpty())
	})

	It("should reject duplicates and blank ids", func() {
		_, err := service.AddPermissionToRole(ctx, "admin", "users:read")
		Expect(err).NotTo(HaveOccurred())

		_, err = service.AddPermissionToRole(ctx, "ADMIN", "users:read")
		Expect(errors.Is(err, internal.ErrRolePermissionAlreadyExists)).To(BeTrue())

		_, err = service.AddPermissionToRole(ctx, "", "users:read")
		Expect(errors.Is(err, internal.ErrRelationFieldsRequired)).To(BeTrue())

		_, err = service.GetPermissionsByRole(ctx, " ")
		Expect(errors.Is(err, internal.ErrRelationFieldsRequired)).To(BeTrue())
	})

	Describe("with grants", func() {
		BeforeEach(func() {
			grants := [][2]string{
				{"admin", "users:read"},
				{"admin", "users:write"},
				{"editor", "users:read"},
				{"editor", "posts:write"},
			}
			for _, g := range grants {
				_, err := service.AddPermissionToRole(ctx, g[0], g[1])
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("should union permissions across roles without duplicates", func() {
			perms, err := service.PermissionsForRoles(ctx, []string{"admin", "editor", "", "ghost"})
			Expect(err).NotTo(HaveOccurred())
			Expect(perms).To(Equal([]string{"users:read", "users:write", "posts:write"}))

			none, err := service.PermissionsForRoles(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(none).To(BeEmpty())
		})

		It("should answer membership checks", func() {
			Expect(service.RoleHasPermission(ctx, "editor", "posts:write")).To(BeTrue())
			Expect(service.RoleHasPermission(ctx, "admin", "posts:write")).To(BeFalse())
			Expect(service.RoleHasPermission(ctx, "", "posts:write")).To(BeFalse())
		})

		It("should update in place and reject no-ops", func() {
			updated, err := service.UpdatePermissionRelation(ctx, "admin", "users:read", "users:delete")
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.PermissionID).To(Equal("users:delete"))

			all, _ := service.GetAllRelations(ctx)
			Expect(all[0]).To(Equal(rolepermission.RolePermission{RoleID: "admin", PermissionID: "users:delete"}))

			_, err = service.UpdatePermissionRelation(ctx, "admin", "users:delete", "users:delete")
			Expect(errors.Is(err, internal.ErrSamePermission)).To(BeTrue())

			_, err = service.UpdatePermissionRelation(ctx, "admin", "users:delete", "users:write")
			Expect(errors.Is(err, internal.ErrRolePermissionAlreadyExists)).To(BeTrue())

			_, err = service.UpdatePermissionRelation(ctx, "admin", "ghost", "users:read")
			Expect(errors.Is(err, internal.ErrRolePermissionNotFound)).To(BeTrue())
		})

		It("should fail to revoke a missing grant", func() {
			err := service.RemovePermissionFromRole(ctx, "admin", "posts:write")
			Expect(errors.Is(err, internal.ErrRolePermissionNotFound)).To(BeTrue())
		})
	})

	It("should publish grant events", func() {
		var received []string
		bus.Subscribe(events.EventTypeRolePermissionGranted, func(_ context.Context, e events.Event) error {
			rel := e.(*events.RelationEvent)
			received = append(received, rel.SubjectID+"/"+rel.ObjectID)
			return nil
		})

		_, err := service.AddPermissionToRole(ctx, "admin", "users:read")
		Expect(err).NotTo(HaveOccurred())
		Expect(received).To(Equal([]string{"admin/users:read"}))
	})
})
