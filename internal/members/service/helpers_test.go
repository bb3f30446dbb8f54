package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/keystackhq/keystack/internal/members/domain"
	"github.com/keystackhq/keystack/internal/members/identity"
	identsqlite "github.com/keystackhq/keystack/internal/members/identity/sqlite"
	"github.com/keystackhq/keystack/internal/members/store"
	"github.com/keystackhq/keystack/internal/members/store/drivers/sqlite"
	"github.com/keystackhq/keystack/pkg/cryptox"
	"github.com/keystackhq/keystack/pkg/idx"
)

// testEnv wires the full service stack against in-memory databases. Two
// separate handles, like production: no transaction spans credentials and
// the relational records.
type testEnv struct {
	store store.Store
	ident identity.Store

	audit       *AuditService
	invites     *InviteService
	memberships *MembershipService
	roles       *RoleService
	verify      *VerifyService
	provision   *ProvisionService
	reconcile   *ReconcileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	ident, err := identsqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ident.Close() })

	env := &testEnv{store: st, ident: ident}
	env.audit = &AuditService{Store: st}
	env.invites = &InviteService{Store: st, Audit: env.audit, Notifier: LogNotifier{}}
	env.memberships = &MembershipService{Store: st, Audit: env.audit}
	env.roles = &RoleService{Store: st, Audit: env.audit}
	env.verify = &VerifyService{Store: st, Audit: env.audit}
	env.provision = &ProvisionService{
		Store:       st,
		Identity:    ident,
		Audit:       env.audit,
		Invites:     env.invites,
		Memberships: env.memberships,
		Roles:       env.roles,
		Verifier:    env.verify,
	}
	env.reconcile = &ReconcileService{
		Store:       st,
		Identity:    ident,
		Audit:       env.audit,
		Roles:       env.roles,
		Memberships: env.memberships,
	}
	return env
}

func (env *testEnv) seedOffice(t *testing.T, name string) domain.Office {
	t.Helper()
	office := domain.Office{ID: idx.New().String(), Name: name}
	require.NoError(t, env.store.Offices().Create(context.Background(), office))
	return office
}

func (env *testEnv) seedTeam(t *testing.T, officeID, name string) domain.Team {
	t.Helper()
	team := domain.Team{ID: idx.New().String(), Name: name, OfficeID: officeID}
	require.NoError(t, env.store.Teams().Create(context.Background(), team))
	return team
}

// seedAdmin provisions a fully configured platform admin the short way,
// bypassing the invitation flow.
func (env *testEnv) seedAdmin(t *testing.T, officeID, email string) domain.Profile {
	t.Helper()
	ctx := context.Background()

	userID := idx.New().String()
	require.NoError(t, env.ident.Create(ctx, identity.Credential{
		ID:           userID,
		Email:        email,
		PasswordHash: "x",
	}))
	require.NoError(t, env.store.Profiles().Upsert(ctx, domain.Profile{
		ID:       userID,
		Email:    email,
		Name:     "Admin",
		Status:   domain.ProfileActive,
		OfficeID: officeID,
	}))
	_, err := env.memberships.Assign(ctx, userID, userID, domain.RolePlatformAdmin, nil, officeID)
	require.NoError(t, err)
	require.NoError(t, env.roles.Grant(ctx, userID, userID, domain.RolePlatformAdmin))

	prof, err := env.store.Profiles().GetByID(ctx, userID)
	require.NoError(t, err)
	return prof
}

func (env *testEnv) mintInvite(t *testing.T, actor Actor, officeID, email string, role domain.Role, teamID *string) (domain.Invitation, string) {
	t.Helper()
	inv, token, err := env.invites.Create(context.Background(), actor, CreateParams{
		Email:    email,
		Role:     role,
		TeamID:   teamID,
		OfficeID: officeID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return inv, token
}

func adminActor(p domain.Profile) Actor {
	return Actor{ID: p.ID, Role: domain.RolePlatformAdmin}
}

// backdateInvitation moves an invitation's expiry into the past while
// keeping its token valid for lookup, exercising the pending-but-due path.
func backdateInvitation(t *testing.T, st store.Store, id, token string) {
	t.Helper()
	hash := cryptox.FingerprintToken(token)
	require.NoError(t, st.Invitations().Renew(context.Background(), id, hash, time.Now().UTC().Add(-time.Hour)))
}
