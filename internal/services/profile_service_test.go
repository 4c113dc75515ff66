package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/hirex/internal/models"
	"github.com/yoockh/hirex/internal/utils"
)

func newProfileFixture(t *testing.T) (ProfileService, *fakeStore, *fakeResumeFiles, Caller) {
	t.Helper()
	users := NewUserService(newFakeUsers(), fakeTokens{})
	u, err := users.Signup(context.Background(), SignupInput{Name: "Jane", Email: "jane@x.io", Password: "secret1"})
	require.NoError(t, err)

	store := newFakeStore()
	files := &fakeResumeFiles{}
	profiles := &fakeProfiles{byUser: map[string]*models.Profile{}}
	svc := NewProfileService(users, profiles, files, store, nil, 0)
	return svc, store, files, Caller{UserID: u.ID.Hex(), Role: string(u.Role)}
}

func TestProfileGetMeWithoutProfile(t *testing.T) {
	svc, _, _, caller := newProfileFixture(t)

	view, err := svc.GetMe(context.Background(), caller)
	require.NoError(t, err)
	assert.Equal(t, "Jane", view.User.Name)
	assert.Equal(t, caller.UserID, view.Profile.UserID)
	assert.NotNil(t, view.Resumes)
	assert.Empty(t, view.Resumes)
}

func TestProfileUpdateWithResume(t *testing.T) {
	svc, store, files, caller := newProfileFixture(t)

	view, err := svc.Update(context.Background(), caller, ProfileUpdate{
		Name:             "Jane Doe",
		Bio:              "Backend engineer",
		Skills:           []string{" Go ", "", "Postgres"},
		StructuredResume: json.RawMessage(`{"user":{"skills":["Go"]}}`),
	}, &FileInput{Filename: "cv.pdf", ContentType: "application/pdf", Size: 4, Body: strings.NewReader("%PDF")})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", view.User.Name)
	assert.Equal(t, "Backend engineer", view.Profile.Bio)
	assert.Equal(t, []string{"Go", "Postgres"}, []string(view.Profile.Skills))
	assert.JSONEq(t, `{"user":{"skills":["Go"]}}`, string(view.Profile.StructuredResume))
	assert.Equal(t, "cv.pdf", view.Profile.ResumeOriginalName)

	require.Len(t, files.rows, 1)
	row := files.rows[0]
	assert.Equal(t, int64(4), row.FileSize)
	assert.True(t, strings.HasPrefix(row.PublicID, "profiles/"+caller.UserID+"/"))
	assert.Equal(t, row.FilePath, view.Profile.ResumeURL)
	assert.Contains(t, store.uploaded, row.PublicID)
	require.Len(t, view.Resumes, 1)
}

func TestProfileUpdateRejects(t *testing.T) {
	svc, _, files, caller := newProfileFixture(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, caller, ProfileUpdate{StructuredResume: json.RawMessage(`{nope`)}, nil)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.Update(ctx, caller, ProfileUpdate{}, &FileInput{Filename: "a.exe", ContentType: "application/x-msdownload", Size: 1, Body: strings.NewReader("x")})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	assert.Empty(t, files.rows)

	_, err = svc.Update(ctx, Caller{}, ProfileUpdate{Bio: "x"}, nil)
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
}
