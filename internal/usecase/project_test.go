package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
	"github.com/Samuel-soita/project-tracker-backend/internal/usecase"
)

type projectFixture struct {
	*testEnv
	projects *usecase.ProjectUsecase
	members  *usecase.MemberUsecase
	tasks    *usecase.TaskUsecase
	admin    *domain.User
	owner    *domain.User
	other    *domain.User
}

// newProjectFixture seeds an admin and two students in the same cohort.
func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	ctx := context.Background()
	e := newEnv(t, usecase.AuthConfig{})
	f := &projectFixture{
		testEnv:  e,
		projects: usecase.NewProjectUsecase(e.store.Projects(), noopActivity{}),
		members:  usecase.NewMemberUsecase(e.store.Projects(), e.store.Members(), e.store.Users(), e.outbox, noopActivity{}, "http://localhost:3000"),
		tasks:    usecase.NewTaskUsecase(e.store.Tasks(), e.store.Projects(), e.store.Users(), noopActivity{}),
		admin:    e.register(t, "Root", "root@example.com", "pw123456", domain.RoleAdmin),
		owner:    e.register(t, "Alice", "alice@example.com", "pw123456", domain.RoleStudent),
		other:    e.register(t, "Bob", "bob@example.com", "pw123456", domain.RoleStudent),
	}

	c, err := e.store.Cohorts().Create(ctx, &domain.Cohort{Name: "Cohort A"})
	if err != nil {
		t.Fatal(err)
	}
	for _, u := range []*domain.User{f.owner, f.other} {
		if err := e.store.Users().SetCohort(ctx, u.ID, c.ID); err != nil {
			t.Fatal(err)
		}
		u.CohortID = &c.ID
	}
	return f
}

func (f *projectFixture) createProject(t *testing.T, name string, tags ...string) *domain.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), f.owner, usecase.ProjectInput{Name: ptr(name), Tags: tags})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func TestProjectCreate_RequiresCohort(t *testing.T) {
	e := newEnv(t, usecase.AuthConfig{})
	uc := usecase.NewProjectUsecase(e.store.Projects(), noopActivity{})
	loner := e.register(t, "Lone", "lone@example.com", "pw123456", domain.RoleStudent)

	_, err := uc.Create(context.Background(), loner, usecase.ProjectInput{Name: ptr("Rocket")})
	if !errors.Is(err, domain.ErrForbidden) || !strings.Contains(err.Error(), "cohort") {
		t.Errorf("want cohort ErrForbidden, got %v", err)
	}

	admin := e.register(t, "Root", "root@example.com", "pw123456", domain.RoleAdmin)
	if _, err := uc.Create(context.Background(), admin, usecase.ProjectInput{Name: ptr("Rocket")}); err != nil {
		t.Errorf("admins need no cohort: %v", err)
	}
}

func TestProjectCreate_InheritsCohortAndNormalizesTags(t *testing.T) {
	f := newProjectFixture(t)
	p := f.createProject(t, "Rocket", " android ", "Android", "", "web")

	if p.CohortID == nil || *p.CohortID != *f.owner.CohortID {
		t.Errorf("cohort not inherited")
	}
	if p.Status != domain.ProjectInProgress {
		t.Errorf("want In Progress, got %q", p.Status)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "android" || p.Tags[1] != "web" {
		t.Errorf("unexpected tags %q", p.Tags)
	}
}

func TestProjectUpdate_Ownership(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)
	p := f.createProject(t, "Rocket")

	if _, err := f.projects.Update(ctx, f.other, p.ID, usecase.ProjectInput{Name: ptr("Mine")}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-owner: want ErrForbidden, got %v", err)
	}
	if err := f.projects.Delete(ctx, f.other, p.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-owner delete: want ErrForbidden, got %v", err)
	}
	if _, err := f.projects.Update(ctx, f.other, "missing", usecase.ProjectInput{Name: ptr("x")}); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Errorf("missing: want ErrProjectNotFound, got %v", err)
	}
	if _, err := f.projects.Update(ctx, f.admin, p.ID, usecase.ProjectInput{Name: ptr("Renamed")}); err != nil {
		t.Errorf("admin update: %v", err)
	}
}

func TestProjectSetStatus_Validation(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)
	p := f.createProject(t, "Rocket")

	if _, err := f.projects.SetStatus(ctx, f.owner, p.ID, "Done"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("want ErrValidation, got %v", err)
	}
	got, err := f.projects.SetStatus(ctx, f.owner, p.ID, "Completed")
	if err != nil || got.Status != domain.ProjectCompleted {
		t.Fatalf("set status: %+v %v", got, err)
	}
}

func TestProjectGet_Visibility(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)
	p := f.createProject(t, "Rocket")

	if _, err := f.projects.Get(ctx, f.other, p.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("in-progress project of someone else: want ErrForbidden, got %v", err)
	}
	if _, err := f.projects.Get(ctx, f.other, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}

	if _, err := f.projects.SetStatus(ctx, f.owner, p.ID, "Under Review"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.projects.Get(ctx, f.other, p.ID); err != nil {
		t.Errorf("submitted project should be visible: %v", err)
	}
}

func TestProjectList_TrackFilterAndPaging(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)
	f.createProject(t, "A", "android")
	f.createProject(t, "B", "web")

	res, err := f.projects.List(ctx, f.owner, "Android", repository.Page{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 || res.Items[0].Name != "A" {
		t.Errorf("unexpected result %+v", res)
	}

	res, err = f.projects.List(ctx, f.other, "", repository.Page{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 0 {
		t.Errorf("other student should not see in-progress projects, got %d", res.Total)
	}
}

// ---- members ----

func TestMemberInvite_FlowAndDuplicates(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)
	p := f.createProject(t, "Rocket")

	if _, err := f.members.Invite(ctx, f.other, p.ID, "alice@example.com", ""); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-owner invite: want ErrForbidden, got %v", err)
	}
	if _, err := f.members.Invite(ctx, f.owner, p.ID, "ghost@example.com", ""); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("unknown invitee: want ErrUserNotFound, got %v", err)
	}
	if _, err := f.members.Invite(ctx, f.owner, p.ID, "bob@example.com", "owner"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad role: want ErrValidation, got %v", err)
	}

	m, err := f.members.Invite(ctx, f.owner, p.ID, "bob@example.com", "")
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if m.Status != domain.MemberPending || m.Role != domain.MemberCollaborator {
		t.Errorf("unexpected member %+v", m)
	}
	if _, err := f.members.Invite(ctx, f.owner, p.ID, "bob@example.com", ""); !errors.Is(err, domain.ErrAlreadyInvited) {
		t.Errorf("duplicate: want ErrAlreadyInvited, got %v", err)
	}

	f.outbox.Wait()
	if mails := f.sender.mails(); len(mails) != 1 || mails[0].to != "bob@example.com" {
		t.Errorf("expected one invitation mail, got %+v", mails)
	}
}

func TestMemberRespond_AcceptGrantsAccess(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)
	p := f.createProject(t, "Rocket")

	if _, err := f.members.Respond(ctx, f.other, p.ID, "accept"); !errors.Is(err, domain.ErrInvitationNotFound) {
		t.Errorf("no invitation: want ErrInvitationNotFound, got %v", err)
	}

	if _, err := f.members.Invite(ctx, f.owner, p.ID, "bob@example.com", "viewer"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.members.Respond(ctx, f.other, p.ID, "maybe"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad action: want ErrValidation, got %v", err)
	}
	m, err := f.members.Respond(ctx, f.other, p.ID, "accept")
	if err != nil || m.Status != domain.MemberAccepted {
		t.Fatalf("accept: %+v %v", m, err)
	}
	if _, err := f.members.Respond(ctx, f.other, p.ID, "decline"); !errors.Is(err, domain.ErrInvitationNotFound) {
		t.Errorf("already answered: want ErrInvitationNotFound, got %v", err)
	}

	if _, err := f.projects.Get(ctx, f.other, p.ID); err != nil {
		t.Errorf("accepted member should see project: %v", err)
	}
}

func TestMemberRemove(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)
	p := f.createProject(t, "Rocket")

	if err := f.members.Remove(ctx, f.owner, p.ID, f.other.ID); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Errorf("want ErrMemberNotFound, got %v", err)
	}
	if _, err := f.members.Invite(ctx, f.owner, p.ID, "bob@example.com", ""); err != nil {
		t.Fatal(err)
	}
	if err := f.members.Remove(ctx, f.owner, p.ID, f.other.ID); err != nil {
		t.Errorf("remove: %v", err)
	}
}
