package resolver_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/animeta/internal/localcfg"
	"github.com/vmunix/animeta/internal/resolver"
	"github.com/vmunix/animeta/internal/resolver/mocks"
	"github.com/vmunix/animeta/pkg/bangumi"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newResolver(t *testing.T) (*resolver.Resolver, *mocks.MockCatalog) {
	t.Helper()
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalog(ctrl)
	return resolver.New(catalog, 0, testLogger()), catalog
}

func TestResolveSeasonID_OverrideDominates(t *testing.T) {
	r, _ := newResolver(t) // no catalog expectations: no calls allowed

	info := resolver.SeasonInfo{
		Path:             "/anime/Show Name/Season 01 [bangumi=777]",
		Index:            1,
		ProviderID:       "888",
		SeriesProviderID: "999",
	}
	id, subject, err := r.ResolveSeasonID(context.Background(), info, localcfg.Override{ID: 42}, nil)

	require.NoError(t, err)
	assert.Equal(t, 42, id)
	assert.Nil(t, subject)
}

func TestResolveSeasonID_FolderAttribute(t *testing.T) {
	r, _ := newResolver(t)

	info := resolver.SeasonInfo{Path: "/anime/Show Name [bangumi=309]", Index: 1}
	id, _, err := r.ResolveSeasonID(context.Background(), info, localcfg.Override{}, nil)

	require.NoError(t, err)
	assert.Equal(t, 309, id)
}

func TestResolveSeasonID_ExistingProviderID(t *testing.T) {
	r, _ := newResolver(t)

	info := resolver.SeasonInfo{Path: "/anime/Show/Season 02", Index: 2, ProviderID: "123"}
	id, _, err := r.ResolveSeasonID(context.Background(), info, localcfg.Override{}, nil)

	require.NoError(t, err)
	assert.Equal(t, 123, id)
}

func TestResolveSeasonID_SeasonOneInheritsSeriesID(t *testing.T) {
	r, _ := newResolver(t)

	info := resolver.SeasonInfo{Path: "/anime/Show/Season 01", Index: 1, SeriesProviderID: "77"}
	id, _, err := r.ResolveSeasonID(context.Background(), info, localcfg.Override{}, nil)

	require.NoError(t, err)
	assert.Equal(t, 77, id)
}

func TestResolveSeasonID_SeasonTwoDoesNotInheritSeriesID(t *testing.T) {
	r, catalog := newResolver(t)
	catalog.EXPECT().
		SearchSubjectsRanked(gomock.Any(), gomock.Any(), bangumi.SubjectTypeAnime).
		Return(nil, nil)

	info := resolver.SeasonInfo{Path: "/anime/Show/Season 02", Index: 2, SeriesProviderID: "77"}
	id, _, err := r.ResolveSeasonID(context.Background(), info, localcfg.Override{}, nil)

	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestResolveSeasonID_NameSearchAccepted(t *testing.T) {
	r, catalog := newResolver(t)
	catalog.EXPECT().
		SearchSubjectsRanked(gomock.Any(), "Bocchi the Rock!", bangumi.SubjectTypeAnime).
		Return([]bangumi.SearchCandidate{
			{Subject: bangumi.Subject{ID: 302286, Name: "孤独摇滚！"}, Score: 95},
		}, nil)

	info := resolver.SeasonInfo{Path: "/anime/[Sakurato] Bocchi the Rock! [1080p]", Index: 1}
	id, subject, err := r.ResolveSeasonID(context.Background(), info, localcfg.Override{}, nil)

	require.NoError(t, err)
	assert.Equal(t, 302286, id)
	require.NotNil(t, subject, "search acceptance yields the full record")
	assert.Equal(t, "孤独摇滚！", subject.Name)
}

func TestResolveSeasonID_NameSearchBelowThreshold(t *testing.T) {
	r, catalog := newResolver(t)
	catalog.EXPECT().
		SearchSubjectsRanked(gomock.Any(), gomock.Any(), bangumi.SubjectTypeAnime).
		Return([]bangumi.SearchCandidate{
			{Subject: bangumi.Subject{ID: 1}, Score: 79},
		}, nil)

	info := resolver.SeasonInfo{Path: "/anime/Some Show/Some Show", Index: 1}
	id, subject, err := r.ResolveSeasonID(context.Background(), info, localcfg.Override{}, nil)

	require.NoError(t, err)
	assert.Zero(t, id)
	assert.Nil(t, subject)
}

func TestResolveSeasonID_LineageNextSubject(t *testing.T) {
	r, catalog := newResolver(t)
	catalog.EXPECT().
		SearchSubjectsRanked(gomock.Any(), gomock.Any(), bangumi.SubjectTypeAnime).
		Return(nil, nil)
	catalog.EXPECT().
		GetNextSubject(gomock.Any(), 100).
		Return(&bangumi.Subject{ID: 150, Name: "Second Season"}, nil)

	info := resolver.SeasonInfo{Path: "/anime/Show/Season 02", Index: 2}
	siblings := []resolver.SiblingSeason{
		{Path: "/anime/Show/Season 01", Index: 1, ProviderID: "100"},
	}
	id, subject, err := r.ResolveSeasonID(context.Background(), info, localcfg.Override{}, siblings)

	require.NoError(t, err)
	assert.Equal(t, 150, id)
	require.NotNil(t, subject)
	assert.Equal(t, "Second Season", subject.Name)
}

func TestResolveSeasonID_LineageAnchorPrefersHighestID(t *testing.T) {
	r, catalog := newResolver(t)
	catalog.EXPECT().
		SearchSubjectsRanked(gomock.Any(), gomock.Any(), bangumi.SubjectTypeAnime).
		Return(nil, nil)
	// The sibling with the higher resolved id is the anchor.
	catalog.EXPECT().
		GetNextSubject(gomock.Any(), 200).
		Return(nil, bangumi.ErrNotFound)

	info := resolver.SeasonInfo{Path: "/anime/Show/Season 02 Part 2", Index: 2}
	siblings := []resolver.SiblingSeason{
		{Path: "/anime/Show/Season 01", Index: 1, ProviderID: "100"},
		{Path: "/anime/Show/Season 02", Index: 2, ProviderID: "200"},
	}
	id, _, err := r.ResolveSeasonID(context.Background(), info, localcfg.Override{}, siblings)

	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestResolveSeasonID_SamePathAnchorSearchesByName(t *testing.T) {
	r, catalog := newResolver(t)
	catalog.EXPECT().
		SearchSubjectsRanked(gomock.Any(), gomock.Any(), bangumi.SubjectTypeAnime).
		Return(nil, nil)
	catalog.EXPECT().
		SearchSubjects(gomock.Any(), "Show Name 第二季", bangumi.SubjectTypeAnime).
		Return(nil, nil)
	catalog.EXPECT().
		SearchSubjects(gomock.Any(), "Show Name Season 2", bangumi.SubjectTypeAnime).
		Return([]bangumi.Subject{
			{ID: 99, Name: "Show Name"},        // the parent series itself
			{ID: 205, ProductionYear: "2020"},  // wrong year
			{ID: 210, ProductionYear: "2024"},  // match
			{ID: 211, ProductionYear: "2024"},  // later result, ignored
		}, nil)

	info := resolver.SeasonInfo{
		Path:             "/anime/Show Name",
		Index:            2,
		SeriesName:       "Show Name",
		SeriesProviderID: "99",
		Year:             2024,
	}
	// The only candidate anchor is this season itself: season 1 is missing.
	siblings := []resolver.SiblingSeason{{Path: "/anime/Show Name", Index: 2}}

	id, subject, err := r.ResolveSeasonID(context.Background(), info, localcfg.Override{}, siblings)

	require.NoError(t, err)
	assert.Equal(t, 210, id)
	assert.Nil(t, subject, "literal-query guesses return only the id")
}

func TestResolveSeasonID_NextSubjectOverridesLiteralSearch(t *testing.T) {
	r, catalog := newResolver(t)
	catalog.EXPECT().
		SearchSubjectsRanked(gomock.Any(), gomock.Any(), bangumi.SubjectTypeAnime).
		Return(nil, nil)
	catalog.EXPECT().
		SearchSubjects(gomock.Any(), gomock.Any(), bangumi.SubjectTypeAnime).
		Return([]bangumi.Subject{{ID: 300}}, nil).
		Times(2)
	catalog.EXPECT().
		GetNextSubject(gomock.Any(), 100).
		Return(&bangumi.Subject{ID: 150}, nil)

	info := resolver.SeasonInfo{
		Path:       "/anime/Show Name",
		Index:      2,
		SeriesName: "Show Name",
	}
	siblings := []resolver.SiblingSeason{{Path: "/anime/Show Name", Index: 2, ProviderID: "100"}}

	id, _, err := r.ResolveSeasonID(context.Background(), info, localcfg.Override{}, siblings)

	require.NoError(t, err)
	assert.Equal(t, 150, id, "a sequel-relation hit wins over the literal-search guess")
}

func TestResolveSeasonID_TransientSearchErrorIsNotFatal(t *testing.T) {
	r, catalog := newResolver(t)
	catalog.EXPECT().
		SearchSubjectsRanked(gomock.Any(), gomock.Any(), bangumi.SubjectTypeAnime).
		Return(nil, errors.New("connection refused"))

	info := resolver.SeasonInfo{Path: "/anime/Show Name", Index: 1}
	id, _, err := r.ResolveSeasonID(context.Background(), info, localcfg.Override{}, nil)

	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestResolveSeasonID_Cancelled(t *testing.T) {
	r, _ := newResolver(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := r.ResolveSeasonID(ctx, resolver.SeasonInfo{Path: "/x"}, localcfg.Override{ID: 42}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
