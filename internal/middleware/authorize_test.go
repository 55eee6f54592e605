package middleware

import (
	"testing"

	"atelier/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestAllowed_CapabilityTable(t *testing.T) {
	cases := []struct {
		role   model.Role
		action Action
		want   bool
	}{
		{model.RoleUser, ActionOrdersReadAll, false},
		{model.RoleUser, ActionProductsWrite, false},

		{model.RoleStaff, ActionOrdersReadAll, true},
		{model.RoleStaff, ActionOrdersUpdateStatus, true},
		{model.RoleStaff, ActionPaymentsRead, true},
		{model.RoleStaff, ActionOrdersDelete, false},
		{model.RoleStaff, ActionProductsWrite, false},
		{model.RoleStaff, ActionCouponsWrite, false},
		{model.RoleStaff, ActionUsersManage, false},

		{model.RoleAdmin, ActionOrdersReadAll, true},
		{model.RoleAdmin, ActionOrdersDelete, true},
		{model.RoleAdmin, ActionProductsWrite, true},
		{model.RoleAdmin, ActionCouponsWrite, true},
		{model.RoleAdmin, ActionUsersManage, true},

		{model.Role("UNKNOWN"), ActionOrdersReadAll, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, Allowed(c.role, c.action), "role=%s action=%s", c.role, c.action)
	}
}
