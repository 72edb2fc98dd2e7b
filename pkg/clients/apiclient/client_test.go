package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/jakechorley/volunteer-profile/pkg/backend"
	"github.com/jakechorley/volunteer-profile/pkg/core/model"
	"github.com/jakechorley/volunteer-profile/pkg/core/reconciler"
	"github.com/jakechorley/volunteer-profile/pkg/core/selection"
	"github.com/jakechorley/volunteer-profile/pkg/db"
	"github.com/jakechorley/volunteer-profile/pkg/sqlite"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testToken = "secret-token"

func newBackend(t *testing.T) (*httptest.Server, *sqlite.DB) {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.NewDB(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, store.RunMigrations(ctx))

	require.NoError(t, db.ApplySeed(ctx, store, &db.Seed{
		Cycles: []model.Cycle{{Name: "DAM", Course: 2}},
		Categories: map[db.CategoryKind][]db.Category{
			db.CategorySkills:    {{ID: 1, Name: "Cocina"}},
			db.CategoryInterests: {{ID: 7, Name: "Infancia"}},
			db.CategoryNeeds:     {{ID: 3, Name: "Transporte"}},
			db.CategoryOds:       {{ID: 1, Name: "Fin de la pobreza"}},
		},
		Volunteers: []db.VolunteerRecord{{
			DNI:       "12345678A",
			FirstName: "Ana",
			Surname:   "García",
			Email:     "ana@example.com",
			Cycle:     &model.Cycle{Name: "DAM", Course: 2},
			SkillIDs:  []int{1},
		}},
		Tokens: []db.SeedToken{{Token: testToken, DNI: "12345678A"}},
	}))

	server := httptest.NewServer(backend.NewServer(store, zap.NewNop()).Handler(nil))
	t.Cleanup(server.Close)
	return server, store
}

func newTestClient(t *testing.T, baseURL, token string) *Client {
	t.Helper()
	var tok *oauth2.Token
	if token != "" {
		tok = &oauth2.Token{AccessToken: token, TokenType: "Bearer"}
	}
	return NewClient(context.Background(), baseURL, tok, 5*time.Second, zap.NewNop())
}

func TestClient_ReferenceData(t *testing.T) {
	server, _ := newBackend(t)
	client := newTestClient(t, server.URL+"/", "")
	ctx := context.Background()

	cycles, err := client.GetCycles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Cycle{{Name: "DAM", Course: 2}}, cycles)

	skills, err := client.GetSkills(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Skill{{ID: 1, Name: "Cocina"}}, skills)

	interests, err := client.GetInterests(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Interest{{ID: 7, Name: "Infancia"}}, interests)

	needs, err := client.GetNeeds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Need{{ID: 3, Name: "Transporte"}}, needs)

	ods, err := client.GetOds(ctx)
	require.NoError(t, err)
	assert.Len(t, ods, 1)
}

func TestClient_ProfileRoundTrip(t *testing.T) {
	server, store := newBackend(t)
	client := newTestClient(t, server.URL, testToken)
	ctx := context.Background()

	v, err := client.GetVolunteerProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana", v.FirstName)
	require.NotNil(t, v.Cycle)
	assert.Equal(t, model.CycleLabel("DAM (2)"), *v.Cycle)

	err = client.UpdateProfile(ctx, map[string]any{
		"zona":  "Estella",
		"coche": "Si",
		"ciclo": model.Cycle{Name: "DAM", Course: 2},
	})
	require.NoError(t, err)

	rec, err := store.GetVolunteer(ctx, "12345678A")
	require.NoError(t, err)
	assert.Equal(t, "Estella", rec.Zone)
	assert.True(t, rec.HasCar)
}

func TestClient_SaveWithoutBirthDate(t *testing.T) {
	server, store := newBackend(t)
	client := newTestClient(t, server.URL, testToken)
	ctx := context.Background()

	v, err := client.GetVolunteerProfile(ctx)
	require.NoError(t, err)
	require.Empty(t, v.BirthDate)

	var form reconciler.Form
	state := selection.New()
	reconciler.Seed(v, &form, state)
	form.Zone = "Tafalla"

	cycles, err := client.GetCycles(ctx)
	require.NoError(t, err)
	require.NoError(t, client.UpdateProfile(ctx, reconciler.BuildPayload(&form, state, cycles)))

	rec, err := store.GetVolunteer(ctx, "12345678A")
	require.NoError(t, err)
	assert.Equal(t, "Tafalla", rec.Zone)
	assert.Empty(t, rec.BirthDate)
	assert.Equal(t, []int{1}, rec.SkillIDs)
}

func TestClient_Errors(t *testing.T) {
	server, _ := newBackend(t)
	ctx := context.Background()

	t.Run("unauthenticated", func(t *testing.T) {
		client := newTestClient(t, server.URL, "wrong")
		_, err := client.GetProfile(ctx)
		require.Error(t, err)

		assert.True(t, IsStatus(err, http.StatusUnauthorized))
		assert.False(t, IsTransport(err))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Usuario no autenticado o token inválido", apiErr.Message)
		assert.Equal(t, http.MethodGet, apiErr.Method)
	})

	t.Run("rejected update", func(t *testing.T) {
		client := newTestClient(t, server.URL, testToken)
		err := client.UpdateProfile(ctx, map[string]any{"fechaNacimiento": "ayer"})
		assert.True(t, IsStatus(err, http.StatusBadRequest))
	})

	t.Run("transport failure", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		url := dead.URL
		dead.Close()

		client := newTestClient(t, url, testToken)
		_, err := client.GetCycles(ctx)
		require.Error(t, err)
		assert.True(t, IsTransport(err))
	})
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Usuario no encontrado", errorMessage([]byte(`{"status":"error","code":404,"message":"Usuario no encontrado"}`), "404 Not Found"))
	assert.Equal(t, "502 Bad Gateway", errorMessage([]byte(`<html>`), "502 Bad Gateway"))
}
