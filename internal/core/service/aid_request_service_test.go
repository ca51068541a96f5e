package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

var referencePattern = regexp.MustCompile(`^AR-[0-9A-F]{8}$`)

type aidFixture struct {
	db          *memDB
	svc         *AidRequestService
	director    *domain.User
	employee    *domain.User
	beneficiary *domain.Beneficiary
}

func newAidFixture(t *testing.T) *aidFixture {
	t.Helper()
	db := newMemDB()
	director := db.addUser(domain.User{Email: "d@x.io", Role: domain.RoleProjectDirector})
	employee := db.addUser(domain.User{Email: "e@x.io", Role: domain.RoleEmployee, CreatedBy: director.ID, OrganizationID: director.ID})
	b := &domain.Beneficiary{CreatedBy: director.ID, Email: "b@x.io", FirstName: "Juan", Status: domain.BeneficiaryActive}
	require.NoError(t, memBeneficiaries{db}.Create(context.Background(), b))
	return &aidFixture{
		db:          db,
		svc:         NewAidRequestService(memAidRequests{db}, memBeneficiaries{db}, nopLogger),
		director:    director,
		employee:    employee,
		beneficiary: b,
	}
}

func (f *aidFixture) file(t *testing.T, actor *domain.User) *domain.AidRequest {
	t.Helper()
	r, err := f.svc.Create(context.Background(), actor, ports.CreateAidRequestInput{
		BeneficiaryID: f.beneficiary.ID,
		RequestType:   "medical",
		Amount:        1500,
	})
	require.NoError(t, err)
	return r
}

func TestCreateAidRequest(t *testing.T) {
	f := newAidFixture(t)

	r := f.file(t, f.employee)
	assert.Equal(t, domain.AidRequestPending, r.Status)
	assert.Equal(t, domain.PriorityMedium, r.Priority)
	assert.Equal(t, f.director.ID, r.TenantID, "employee requests land in the director's tenant")
	assert.Equal(t, f.employee.ID, r.RequestedBy)
	assert.Regexp(t, referencePattern, r.Reference)
}

func TestCreateAidRequest_ForeignBeneficiary(t *testing.T) {
	f := newAidFixture(t)
	other := f.db.addUser(domain.User{Email: "o@x.io", Role: domain.RoleProjectDirector})

	_, err := f.svc.Create(context.Background(), other, ports.CreateAidRequestInput{BeneficiaryID: f.beneficiary.ID, RequestType: "food", Amount: 10})
	assert.ErrorIs(t, err, errInvalidBeneficiary)
}

func TestAidRequest_TenantIsolation(t *testing.T) {
	f := newAidFixture(t)
	ctx := context.Background()
	r := f.file(t, f.director)
	other := f.db.addUser(domain.User{Email: "o@x.io", Role: domain.RoleProjectDirector})

	_, err := f.svc.Get(ctx, other, r.ID)
	assert.ErrorIs(t, err, domain.ErrAidRequestNotFound)
	_, err = f.svc.Approve(ctx, other, r.ID)
	assert.ErrorIs(t, err, domain.ErrAidRequestNotFound)

	mine, err := f.svc.List(ctx, f.employee, ports.ListAidRequestsInput{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, mine.Total)
	theirs, err := f.svc.List(ctx, other, ports.ListAidRequestsInput{})
	require.NoError(t, err)
	assert.Zero(t, theirs.Total)
}

func TestAidRequest_Decisions(t *testing.T) {
	f := newAidFixture(t)
	ctx := context.Background()

	approved, err := f.svc.Approve(ctx, f.employee, f.file(t, f.director).ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AidRequestApproved, approved.Status)
	assert.Equal(t, f.employee.ID, approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovalDate)

	_, err = f.svc.Reject(ctx, f.employee, approved.ID, "late")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	rejected, err := f.svc.Reject(ctx, f.director, f.file(t, f.director).ID, "incomplete documents")
	require.NoError(t, err)
	assert.Equal(t, domain.AidRequestRejected, rejected.Status)
	assert.Equal(t, "incomplete documents", rejected.RejectionReason)

	pending, err := f.svc.List(ctx, f.director, ports.ListAidRequestsInput{Status: domain.AidRequestPending})
	require.NoError(t, err)
	assert.Zero(t, pending.Total)
}

func TestAidRequest_OrphanUserForbidden(t *testing.T) {
	f := newAidFixture(t)
	orphan := &domain.User{ID: "x", Role: domain.RoleEmployee}

	_, err := f.svc.List(context.Background(), orphan, ports.ListAidRequestsInput{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
