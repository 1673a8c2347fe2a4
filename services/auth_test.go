package services

import (
	"testing"
	"time"

	"github.com/startinfo/academy_api/dto"
	"github.com/startinfo/academy_api/services/testutils"
	"github.com/startinfo/academy_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (*AuthService, *JWTService) {
	t.Helper()

	_, dbSvc := setupDatabase(t)
	jwtSvc := NewJWTService("test-secret", time.Hour)

	svc := &AuthService{hashCost: bcrypt.MinCost}
	svc.wire(dbSvc, jwtSvc)
	return svc, jwtSvc
}

func TestRegisterAndLogin(t *testing.T) {
	svc, jwtSvc := newAuthService(t)

	user, err := svc.Register(dto.RegisterRequest{
		Email:    "  Student@StartInfo.com ",
		Name:     "Ada Student",
		Password: "SecurePass123!",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "student@startinfo.com", user.Email)
	assert.Equal(t, shared.RoleStudent, user.Role)
	assert.False(t, user.Verified)

	resp, err := svc.Login(dto.LoginRequest{
		Email:    "student@startinfo.com",
		Password: "SecurePass123!",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotNil(t, resp.User.LastLogin)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	userID, role, err := jwtSvc.VerifyJWTToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, shared.RoleStudent, role)

	me, err := svc.Me(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Student", me.Name)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	req := dto.RegisterRequest{
		Email:    "twice@startinfo.com",
		Name:     "Twice",
		Password: "SecurePass123!",
	}

	_, err := svc.Register(req)
	require.NoError(t, err)

	_, err = svc.Register(req)
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindConflict))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db, dbSvc := setupDatabase(t)
	user := testutils.CreateTestUser(db)

	svc := &AuthService{}
	svc.wire(dbSvc, NewJWTService("test-secret", time.Hour))

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", user.Email, "not-the-password"},
		{"unknown email", "nobody@startinfo.com", testutils.TestPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(dto.LoginRequest{Email: tt.email, Password: tt.password})
			require.Error(t, err)
			assert.True(t, shared.IsKind(err, shared.KindUnauthorized))
		})
	}

	resp, err := svc.Login(dto.LoginRequest{Email: user.Email, Password: testutils.TestPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestMeUnknownUser(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Me("missing")
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindNotFound))
}
