package userrole_test

import (
	"context"
	"errors"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/core/events"
	"github.com/frahmantamala/identity-access/internal/userrole"
	userroleMemory "github.com/frahmantamala/identity-access/internal/userrole/memory"
	"github.com/frahmantamala/identity-access/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("UserRoleService", func() {
	var (
		ctx     context.Context
		bus     *events.EventBus
		seen    []events.Event
		service *userrole.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		seen = nil
		bus = events.NewEventBus(logger.Discard())
		record := func(_ context.Context, e events.Event) error {
			seen = append(seen, e)
			return nil
		}
		for _, t := range events.IdentityEventTypes {
			bus.Subscribe(t, record)
		}
		service = userrole.NewService(userroleMemory.NewUserRoleRepository(), events.SyncPublisher{Bus: bus}, logger.Discard())
	})

	It("should keep both sides of the relation in sync", func() {
		_, err := service.AssignRole(ctx, "u1", "r1")
		Expect(err).NotTo(HaveOccurred())

		byUser, err := service.GetUserRoles(ctx, "u1")
		Expect(err).NotTo(HaveOccurred())
		Expect(byUser).To(Equal([]userrole.UserRole{{UserID: "u1", RoleID: "r1"}}))

		byRole, err := service.GetUsersByRole(ctx, "r1")
		Expect(err).NotTo(HaveOccurred())
		Expect(byRole).To(Equal([]userrole.UserRole{{UserID: "u1", RoleID: "r1"}}))

		Expect(service.RemoveRole(ctx, "u1", "r1")).To(Succeed())

		byUser, _ = service.GetUserRoles(ctx, "u1")
		byRole, _ = service.GetUsersByRole(ctx, "r1")
		Expect(byUser).To(BeEmpty())
		Expect(byRole).To(BeEmpty())
	})

	It("should reject a duplicate assignment", func() {
		_, err := service.AssignRole(ctx, "u2", "r1")
		Expect(err).NotTo(HaveOccurred())

		_, err = service.AssignRole(ctx, "u2", "r1")
		Expect(errors.Is(err, internal.ErrUserRoleAlreadyExists)).To(BeTrue())
	})

	DescribeTable("requiring both ids",
		func(userID, roleID string) {
			_, err := service.AssignRole(ctx, userID, roleID)
			Expect(errors.Is(err, internal.ErrRelationFieldsRequired)).To(BeTrue())
			err = service.RemoveRole(ctx, userID, roleID)
			Expect(errors.Is(err, internal.ErrRelationFieldsRequired)).To(BeTrue())
		},
		Entry("missing user", "", "role456"),
		Entry("missing role", "user123", ""),
		Entry("blank role", "user123", "   "),
	)

	It("should reject empty ids on the list queries", func() {
		_, err := service.GetUserRoles(ctx, "")
		Expect(errors.Is(err, internal.ErrRelationFieldsRequired)).To(BeTrue())
		_, err = service.GetUsersByRole(ctx, "")
		Expect(errors.Is(err, internal.ErrRelationFieldsRequired)).To(BeTrue())
	})

	It("should return empty lists for unknown ids", func() {
		roles, err := service.GetUserRoles(ctx, "user_without_roles")
		Expect(err).NotTo(HaveOccurred())
		Expect(roles).NotTo(BeNil())
		Expect(roles).To(BeEmpty())
	})

	Describe("with several assignments", func() {
		BeforeEach(func() {
			for _, pair := range [][2]string{{"u1", "r1"}, {"u1", "r2"}, {"u2", "r1"}} {
				_, err := service.AssignRole(ctx, pair[0], pair[1])
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("should filter by either side", func() {
			byUser, _ := service.GetUserRoles(ctx, "u1")
			Expect(userrole.RoleIDs(byUser)).To(Equal([]string{"r1", "r2"}))

			ids, err := service.RoleIDsForUser(ctx, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(Equal([]string{"r1", "r2"}))

			byRole, _ := service.GetUsersByRole(ctx, "r1")
			Expect(byRole).To(HaveLen(2))

			all, _ := service.GetAllRelations(ctx)
			Expect(all).To(HaveLen(3))
		})

		It("should answer membership checks", func() {
			Expect(service.UserHasRole(ctx, "u1", "r2")).To(BeTrue())
			Expect(service.UserHasRole(ctx, "u2", "r2")).To(BeFalse())
			Expect(service.UserHasRole(ctx, "", "r1")).To(BeFalse())
			Expect(service.UserHasRole(ctx, "u1", "")).To(BeFalse())
		})

		It("should update a relation in place", func() {
			updated, err := service.UpdateUserRole(ctx, "u1", "r1", "r3")
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.RoleID).To(Equal("r3"))

			all, _ := service.GetAllRelations(ctx)
			Expect(all[0]).To(Equal(userrole.UserRole{UserID: "u1", RoleID: "r3"}))
		})

		It("should reject a no-op update", func() {
			_, err := service.UpdateUserRole(ctx, "u1", "r1", "r1")
			Expect(errors.Is(err, internal.ErrSameRole)).To(BeTrue())
		})

		It("should reject an update onto an existing pair", func() {
			_, err := service.UpdateUserRole(ctx, "u1", "r1", "r2")
			Expect(errors.Is(err, internal.ErrUserRoleAlreadyExists)).To(BeTrue())
		})

		It("should reject updates and removals of missing relations", func() {
			_, err := service.UpdateUserRole(ctx, "u2", "r9", "r1")
			Expect(errors.Is(err, internal.ErrUserRoleNotFound)).To(BeTrue())

			err = service.RemoveRole(ctx, "u2", "r2")
			Expect(errors.Is(err, internal.ErrUserRoleNotFound)).To(BeTrue())

			_, err = service.UpdateUserRole(ctx, "u1", "r1", "")
			Expect(errors.Is(err, internal.ErrRelationFieldsRequired)).To(BeTrue())
		})

		It("should normalize role ids", func() {
			Expect(service.UserHasRole(ctx, "u1", " R1 ")).To(BeTrue())
		})

		It("should publish relation events", func() {
			_, err := service.UpdateUserRole(ctx, "u1", "r1", "r3")
			Expect(err).NotTo(HaveOccurred())
			Expect(service.RemoveRole(ctx, "u2", "r1")).To(Succeed())

			types := []string{}
			for _, e := range seen {
				types = append(types, e.EventType())
			}
			Expect(types).To(Equal([]string{
				events.EventTypeUserRoleAssigned,
				events.EventTypeUserRoleAssigned,
				events.EventTypeUserRoleAssigned,
				events.EventTypeUserRoleUpdated,
				events.EventTypeUserRoleRemoved,
			}))

			updated, ok := seen[3].(*events.RelationEvent)
			Expect(ok).To(BeTrue())
			Expect(updated.Previous).To(Equal("r1"))
		})
	})
})
