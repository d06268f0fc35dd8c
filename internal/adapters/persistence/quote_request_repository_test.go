package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/quoteflow-go/internal/adapters/persistence"
	"github.com/andrescamacho/quoteflow-go/internal/domain/quote"
	"github.com/andrescamacho/quoteflow-go/internal/domain/shared"
	"github.com/andrescamacho/quoteflow-go/test/helpers"
)

func testVoyage() quote.VoyageData {
	return quote.VoyageData{
		DeparturePort:   quote.Port{Code: "SGSIN", Name: "Singapore"},
		DestinationPort: quote.Port{Code: "NLRTM", Name: "Rotterdam"},
		CargoType:       quote.CargoTypeContainer,
		CargoWeight:     18000,
		VesselType:      quote.VesselTypeContainerShip,
		DepartureDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newRepo(t *testing.T) *persistence.GormQuoteRequestRepository {
	t.Helper()
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	return persistence.NewGormQuoteRequestRepository(db, clock)
}

func TestQuoteRequestRepository_CreateAndFind(t *testing.T) {
	// Arrange
	repo := newRepo(t)

	// Act
	created, err := repo.Create(
		context.Background(), shared.MustNewTenantID("acme"), testVoyage(), []string{"maersk", "cosco"},
	)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version())

	found, err := repo.FindByID(context.Background(), created.ID())
	require.NoError(t, err)
	assert.Equal(t, created.ID(), found.ID())
	assert.Equal(t, "acme", found.RequesterID().Value())
	assert.Equal(t, quote.StatusPending, found.Status())
	assert.Equal(t, testVoyage(), found.Voyage())
	assert.Equal(t, []string{"maersk", "cosco"}, found.ResponderIDs())
}

func TestQuoteRequestRepository_FindByID_NotFound(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.FindByID(context.Background(), "does-not-exist")

	require.Error(t, err)
	assert.True(t, quote.IsKind(err, quote.KindNotFound))
}

func TestQuoteRequestRepository_SaveRoundTrip(t *testing.T) {
	// Arrange
	repo := newRepo(t)
	created, err := repo.Create(
		context.Background(), shared.MustNewTenantID("acme"), testVoyage(), []string{"maersk", "cosco"},
	)
	require.NoError(t, err)

	assignment, ok := created.FindResponder("maersk")
	require.True(t, ok)
	require.NoError(t, assignment.SubmitResponse(125000, "weekly sailing"))

	// Act
	saved, err := repo.Save(context.Background(), created)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Version())

	found, err := repo.FindByID(context.Background(), created.ID())
	require.NoError(t, err)
	reloaded, ok := found.FindResponder("maersk")
	require.True(t, ok)
	assert.Equal(t, quote.AssignmentSubmitted, reloaded.Status())
	require.NotNil(t, reloaded.Price())
	assert.Equal(t, 125000.0, *reloaded.Price())
	assert.Equal(t, "weekly sailing", reloaded.Comments())
}

func TestQuoteRequestRepository_SaveConflict(t *testing.T) {
	// Arrange: two writers load the same version
	repo := newRepo(t)
	created, err := repo.Create(
		context.Background(), shared.MustNewTenantID("acme"), testVoyage(), []string{"maersk", "cosco"},
	)
	require.NoError(t, err)

	first, err := repo.FindByID(context.Background(), created.ID())
	require.NoError(t, err)
	second, err := repo.FindByID(context.Background(), created.ID())
	require.NoError(t, err)

	// Act: the first writer wins
	firstAssignment, _ := first.FindResponder("maersk")
	require.NoError(t, firstAssignment.SubmitResponse(125000, ""))
	_, err = repo.Save(context.Background(), first)
	require.NoError(t, err)

	// The second writer saves against the stale version
	require.NoError(t, second.Cancel())
	_, err = repo.Save(context.Background(), second)

	// Assert: the race is detected, the winner's state survives
	require.Error(t, err)
	assert.True(t, quote.IsKind(err, quote.KindConcurrentModification))

	found, findErr := repo.FindByID(context.Background(), created.ID())
	require.NoError(t, findErr)
	assert.Equal(t, quote.StatusPending, found.Status())
	assignment, _ := found.FindResponder("maersk")
	assert.Equal(t, quote.AssignmentSubmitted, assignment.Status())
}

func TestQuoteRequestRepository_SaveDeletedAggregate(t *testing.T) {
	// Arrange
	repo := newRepo(t)
	created, err := repo.Create(
		context.Background(), shared.MustNewTenantID("acme"), testVoyage(), []string{"maersk"},
	)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(context.Background(), created.ID()))

	// Act
	_, err = repo.Save(context.Background(), created)

	// Assert
	require.Error(t, err)
	assert.True(t, quote.IsKind(err, quote.KindNotFound))
}

func TestQuoteRequestRepository_FindByRequesterID(t *testing.T) {
	// Arrange
	repo := newRepo(t)
	acme := shared.MustNewTenantID("acme")
	globex := shared.MustNewTenantID("globex")

	first, err := repo.Create(context.Background(), acme, testVoyage(), []string{"maersk"})
	require.NoError(t, err)
	second, err := repo.Create(context.Background(), acme, testVoyage(), []string{"cosco"})
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), globex, testVoyage(), []string{"maersk"})
	require.NoError(t, err)

	// Act
	found, err := repo.FindByRequesterID(context.Background(), acme)

	// Assert
	require.NoError(t, err)
	require.Len(t, found, 2)
	ids := []string{found[0].ID(), found[1].ID()}
	assert.ElementsMatch(t, []string{first.ID(), second.ID()}, ids)
}

func TestQuoteRequestRepository_FindPendingByResponderID(t *testing.T) {
	// Arrange: maersk pending on one request, submitted on a second,
	// absent from a third
	repo := newRepo(t)
	acme := shared.MustNewTenantID("acme")

	pending, err := repo.Create(context.Background(), acme, testVoyage(), []string{"maersk", "cosco"})
	require.NoError(t, err)

	submitted, err := repo.Create(context.Background(), acme, testVoyage(), []string{"maersk"})
	require.NoError(t, err)
	assignment, _ := submitted.FindResponder("maersk")
	require.NoError(t, assignment.SubmitResponse(100000, ""))
	_, err = repo.Save(context.Background(), submitted)
	require.NoError(t, err)

	_, err = repo.Create(context.Background(), acme, testVoyage(), []string{"cosco"})
	require.NoError(t, err)

	// Act
	found, err := repo.FindPendingByResponderID(context.Background(), "maersk")

	// Assert
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, pending.ID(), found[0].ID())
}

func TestQuoteRequestRepository_Delete(t *testing.T) {
	// Arrange
	repo := newRepo(t)
	created, err := repo.Create(
		context.Background(), shared.MustNewTenantID("acme"), testVoyage(), []string{"maersk", "cosco"},
	)
	require.NoError(t, err)

	// Act
	err = repo.Delete(context.Background(), created.ID())

	// Assert: the aggregate and its assignments are gone
	require.NoError(t, err)
	_, err = repo.FindByID(context.Background(), created.ID())
	assert.True(t, quote.IsKind(err, quote.KindNotFound))

	stillPending, err := repo.FindPendingByResponderID(context.Background(), "maersk")
	require.NoError(t, err)
	assert.Empty(t, stillPending)
}

func TestQuoteRequestRepository_AssignmentOrderSurvivesReload(t *testing.T) {
	// Arrange: a fixed clock makes created_at ties certain, so ordering
	// must come from the stored position
	repo := newRepo(t)
	responders := []string{"msc", "maersk", "evergreen", "cosco"}
	created, err := repo.Create(context.Background(), shared.MustNewTenantID("acme"), testVoyage(), responders)
	require.NoError(t, err)

	// Act
	found, err := repo.FindByID(context.Background(), created.ID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, responders, found.ResponderIDs())
}
