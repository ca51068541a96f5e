package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

type employeeFixture struct {
	db       *memDB
	svc      *EmployeeService
	director *domain.User
}

func newEmployeeFixture(t *testing.T) *employeeFixture {
	t.Helper()
	db := newMemDB()
	db.seedPrivileges("aid_request", "view_applications", "approve_applications")
	privs := NewPrivilegeService(memCatalog{db}, memGrants{db}, nopLogger)
	ents := NewEntitlementService(memSubs{db}, memPlans{db}, memUsers{db}, memBeneficiaries{db}, DefaultEntitlementPolicy(), nopLogger)
	svc := NewEmployeeService(memUsers{db}, memAccounts{db}, memPositions{db}, privs, ents, db, nopLogger)
	director := db.addUser(domain.User{Name: "Dana Director", Email: "dana@x.io", Role: domain.RoleProjectDirector})
	return &employeeFixture{db: db, svc: svc, director: director}
}

func employeeInput(name, email string, privileges ...string) ports.CreateEmployeeInput {
	return ports.CreateEmployeeInput{Name: name, Email: email, Password: "secret123", Privileges: privileges}
}

func TestCreateEmployee(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	got, err := f.svc.Create(ctx, f.director, employeeInput("Maria Santos", "maria@x.io", "aid_request"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	u := got.User
	if u.Username != "marias" || !u.MustChangePassword || u.CreatedBy != f.director.ID || u.OrganizationID != f.director.ID {
		t.Fatalf("unexpected employee: %+v", u)
	}
	if !reflect.DeepEqual(got.Privileges, []string{"aid_request"}) {
		t.Fatalf("privileges = %v", got.Privileges)
	}
	if got.Account == nil || got.Account.UserID != u.ID || got.Account.Status != domain.AccountActive {
		t.Fatalf("account row missing: %+v", got.Account)
	}
	if len(u.InlinePrivileges) != 0 {
		t.Fatal("requested privileges must go to the relational store")
	}
}

func TestCreateEmployee_UsernameCollisions(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.director, employeeInput("Maria Santos", "maria@x.io"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.svc.Create(ctx, f.director, employeeInput("Maria Sison", "msison@x.io"))
	if err != nil {
		t.Fatal(err)
	}
	f.db.addUser(domain.User{Email: "taken@x.io", Username: "mcruz", Role: domain.RoleEmployee})
	third, err := f.svc.Create(ctx, f.director, employeeInput("Maria Salas", "mcruz@x.io"))
	if err != nil {
		t.Fatal(err)
	}

	got := []string{first.User.Username, second.User.Username, third.User.Username}
	want := []string{"marias", "msison", "mcruz1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("usernames = %v; want %v", got, want)
	}
}

func TestCreateEmployee_ExplicitUsernameTaken(t *testing.T) {
	f := newEmployeeFixture(t)
	f.db.addUser(domain.User{Email: "x@x.io", Username: "boss", Role: domain.RoleEmployee})

	in := employeeInput("Maria Santos", "maria@x.io")
	in.Username = "boss"
	if _, err := f.svc.Create(context.Background(), f.director, in); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestCreateEmployee_Validation(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()
	f.db.addUser(domain.User{Email: "used@x.io", Role: domain.RoleEmployee})

	tests := []struct {
		name string
		in   ports.CreateEmployeeInput
		want error
	}{
		{"duplicate email", employeeInput("A B", "used@x.io"), domain.ErrEmailTaken},
		{"unknown privilege", employeeInput("A B", "ab@x.io", "launch_rockets"), domain.ErrUnknownPrivilege},
		{"unknown position", ports.CreateEmployeeInput{Name: "A B", Email: "ab@x.io", Password: "secret123", PositionID: "nope"}, errInvalidPosition},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Create(ctx, f.director, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v; want %v", err, tc.want)
			}
		})
	}
}

func TestCreateEmployee_OnlyDirectors(t *testing.T) {
	f := newEmployeeFixture(t)
	emp := f.db.addUser(domain.User{Email: "e@x.io", Role: domain.RoleEmployee, CreatedBy: f.director.ID})

	_, err := f.svc.Create(context.Background(), emp, employeeInput("A B", "ab@x.io"))
	var re *domain.RoleError
	if !errors.As(err, &re) {
		t.Fatalf("expected RoleError, got %v", err)
	}
}

func TestCreateEmployee_PlanLimit(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()
	subscribe(f.db, f.director, f.db.addPlan("Tiny", 10, 1))

	if _, err := f.svc.Create(ctx, f.director, employeeInput("A B", "ab@x.io")); err != nil {
		t.Fatal(err)
	}
	_, err := f.svc.Create(ctx, f.director, employeeInput("C D", "cd@x.io"))
	if !errors.Is(err, domain.ErrEmployeeLimitReached) {
		t.Fatalf("expected ErrEmployeeLimitReached, got %v", err)
	}
}

func TestCreateEmployee_AtomicOnGrantFailure(t *testing.T) {
	f := newEmployeeFixture(t)
	f.db.failOn["grants.insert"] = true
	before := len(f.db.users)

	_, err := f.svc.Create(context.Background(), f.director, employeeInput("A B", "ab@x.io", "aid_request"))
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if len(f.db.users) != before || len(f.db.accounts) != 0 {
		t.Fatal("partial employee left behind")
	}
}

func TestEmployee_ScopedToCreator(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()
	other := f.db.addUser(domain.User{Email: "other@x.io", Role: domain.RoleProjectDirector})
	created, _ := f.svc.Create(ctx, f.director, employeeInput("A B", "ab@x.io"))

	if _, err := f.svc.Get(ctx, other, created.User.ID); !errors.Is(err, domain.ErrEmployeeNotFound) {
		t.Fatalf("cross-tenant read must look like not found, got %v", err)
	}
	if err := f.svc.Deactivate(ctx, other, created.User.ID); !errors.Is(err, domain.ErrEmployeeNotFound) {
		t.Fatalf("cross-tenant delete must look like not found, got %v", err)
	}

	list, err := f.svc.List(ctx, other, ports.ListEmployeesInput{})
	if err != nil || list.Total != 0 {
		t.Fatalf("other director sees %d employees, err %v", list.Total, err)
	}
	list, _ = f.svc.List(ctx, f.director, ports.ListEmployeesInput{})
	if list.Total != 1 || list.Limit != ports.DefaultPageSize {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestUpdateEmployee(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()
	created, _ := f.svc.Create(ctx, f.director, employeeInput("A B", "ab@x.io", "aid_request"))
	created.User.MustChangePassword = false
	_ = memUsers{f.db}.Update(ctx, created.User)

	name := "Alice Bautista"
	password := "another123"
	privs := []string{"view_applications"}
	got, err := f.svc.Update(ctx, f.director, created.User.ID, ports.UpdateEmployeeInput{
		Name: &name, Password: &password, Privileges: &privs,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.User.Name != name || !got.User.MustChangePassword {
		t.Fatalf("update not applied: %+v", got.User)
	}
	if !reflect.DeepEqual(got.Privileges, []string{"view_applications"}) {
		t.Fatalf("privileges = %v", got.Privileges)
	}
	if got.User.Email != "ab@x.io" {
		t.Fatal("untouched fields must stay")
	}
}

func TestUpdateEmployee_Email(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.director, employeeInput("Ana Cruz", "ana@x.io"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Create(ctx, f.director, employeeInput("Ben Cruz", "ben@x.io")); err != nil {
		t.Fatal(err)
	}

	recased := "Ana@x.io"
	got, err := f.svc.Update(ctx, f.director, created.User.ID, ports.UpdateEmployeeInput{Email: &recased})
	if err != nil {
		t.Fatalf("changing only the case must be allowed: %v", err)
	}
	if got.User.Email != recased {
		t.Fatalf("email = %q", got.User.Email)
	}

	other := "BEN@x.io"
	_, err = f.svc.Update(ctx, f.director, created.User.ID, ports.UpdateEmployeeInput{Email: &other})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestDeactivateEmployee(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()
	created, _ := f.svc.Create(ctx, f.director, employeeInput("A B", "ab@x.io"))

	if err := f.svc.Deactivate(ctx, f.director, created.User.ID); err != nil {
		t.Fatal(err)
	}
	stored, err := memUsers{f.db}.FindByID(ctx, created.User.ID)
	if err != nil {
		t.Fatal("employee must not be removed")
	}
	if stored.Status != domain.UserStatusInactive {
		t.Fatalf("status = %s", stored.Status)
	}
}

func TestEmployeeGrantRevokeAndUnlock(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()
	created, _ := f.svc.Create(ctx, f.director, employeeInput("A B", "ab@x.io"))
	id := created.User.ID

	got, err := f.svc.GrantPrivilege(ctx, f.director, id, "approve_applications")
	if err != nil || !domain.ContainsName(got.Privileges, "approve_applications") {
		t.Fatalf("grant: %v %v", got, err)
	}
	if _, err := f.svc.GrantPrivilege(ctx, f.director, id, "bogus"); !errors.Is(err, domain.ErrPrivilegeNotFound) {
		t.Fatalf("expected ErrPrivilegeNotFound, got %v", err)
	}
	got, err = f.svc.RevokePrivilege(ctx, f.director, id, "approve_applications")
	if err != nil || len(got.Privileges) != 0 {
		t.Fatalf("revoke: %v %v", got, err)
	}

	acct, _ := memAccounts{f.db}.FindByUserID(ctx, id)
	for i := 0; i < domain.DefaultMaxFailedLogins; i++ {
		acct.RecordFailure(domain.DefaultLockoutPolicy(), acct.CreatedAt)
	}
	_ = memAccounts{f.db}.Save(ctx, acct)

	got, err = f.svc.Unlock(ctx, f.director, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Account.Status != domain.AccountActive || got.Account.FailedLoginAttempts != 0 || got.Account.LockedUntil != nil {
		t.Fatalf("account not unlocked: %+v", got.Account)
	}
}
