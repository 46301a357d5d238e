package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestDeriveStatusPriority(t *testing.T) {
	cleared := strPtr(StageStatusCleared)

	cases := []struct {
		name     string
		prf      PurchaseRequestForm
		expected DerivedStatus
	}{
		{"pending by default", PurchaseRequestForm{}, StatusPending},
		{"approved when stamp cleared", PurchaseRequestForm{ApprovedStatus: cleared}, StatusApproved},
		{"cancelled beats approved", PurchaseRequestForm{ApprovedStatus: cleared, IsCancel: true}, StatusCancelled},
		{"rejected beats cancelled", PurchaseRequestForm{IsCancel: true, IsReject: true}, StatusRejected},
		{"rejected beats approved", PurchaseRequestForm{ApprovedStatus: cleared, IsReject: true}, StatusRejected},
		{"other stamp text is not approved", PurchaseRequestForm{ApprovedStatus: strPtr("PENDING")}, StatusPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, DeriveStatus(&tc.prf))
		})
	}
}

func TestActionValid(t *testing.T) {
	require.True(t, ActionCheck.Valid())
	require.True(t, ActionApprove.Valid())
	require.True(t, ActionReceive.Valid())
	require.False(t, Action("cancel").Valid())
	require.False(t, Action("").Valid())
}

func TestHasSecondChecker(t *testing.T) {
	var a AssignedApproval
	require.False(t, a.HasSecondChecker())

	empty := ""
	a.SecondCheckedByID = &empty
	require.False(t, a.HasSecondChecker())

	id := "emp-2"
	a.SecondCheckedByID = &id
	require.True(t, a.HasSecondChecker())
}
