package metadata

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/animeta/internal/config"
)

func episodesOf10() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"total": 3, "limit": 100, "offset": 0,
			"data": []map[string]any{
				{"id": 100, "subject_id": 10, "type": 0, "sort": 1, "name_cn": "第一话", "name": "結束バンド", "airdate": "2022-10-08"},
				{"id": 101, "subject_id": 10, "type": 0, "sort": 2, "name_cn": "第二话", "airdate": "2022-10-15"},
				{"id": 102, "subject_id": 10, "type": 1, "sort": 1, "name_cn": "特典映像", "airdate": "2023-02-01"},
			},
		})
	}
}

func subject10() http.HandlerFunc {
	return subjectHandler(nil, map[string]any{
		"id": 10, "type": 2, "name": "ぼっち・ざ・ろっく!", "name_cn": "孤独摇滚！",
		"summary": "吉他英雄的故事", "date": "2022-10-08",
	})
}

func newEpisodeProvider(t *testing.T, handlers map[string]http.HandlerFunc, cfg *config.Config) *EpisodeProvider {
	t.Helper()
	svc := newTestService(t, mockCatalog(t, handlers).URL, testArchive(t), cfg.Archive)
	return NewEpisodeProvider(svc, cfg, testLogger())
}

func TestEpisodeProviderGetMetadata(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"/v0/episodes":    episodesOf10(),
		"/v0/subjects/10": subject10(),
	}
	p := newEpisodeProvider(t, handlers, config.Default())

	dir := t.TempDir()
	path := filepath.Join(dir, "Show Name - 02 [1080p].mkv")

	meta, err := p.GetMetadata(context.Background(), EpisodeInfo{
		Path:            path,
		SubjectID:       10,
		RequestedSeason: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, 101, meta.ID)
	assert.Equal(t, "第二话", meta.Name)
	assert.Equal(t, 2, meta.Index)
	assert.Equal(t, 1, meta.SeasonNumber)
	assert.Equal(t, "2022-10-15", meta.AirDate)
	assert.Equal(t, 2022, meta.ProductionYear)
}

func TestEpisodeProviderGetMetadata_SpecialPrefersSpecialGroup(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"/v0/episodes":    episodesOf10(),
		"/v0/subjects/10": subject10(),
	}
	p := newEpisodeProvider(t, handlers, config.Default())

	// Both the normal group and the special group contain an episode 1; the
	// SPs folder steers matching toward the special.
	path := filepath.Join(t.TempDir(), "Show Name", "SPs", "Show Name - 01.mkv")

	meta, err := p.GetMetadata(context.Background(), EpisodeInfo{
		Path:            path,
		SubjectID:       10,
		RequestedSeason: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, 102, meta.ID)
	assert.Equal(t, 0, meta.SeasonNumber)
	assert.Equal(t, 1, meta.AirsAfterSeason)
}

func TestEpisodeProviderGetMetadata_HeuristicSpecialWithoutRecord(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"/v0/episodes":    episodesOf10(),
		"/v0/subjects/10": subject10(),
	}
	p := newEpisodeProvider(t, handlers, config.Default())

	// No parseable ordinal, so there is no catalog record to attach; the
	// extras folder alone pins it to the specials bucket.
	path := filepath.Join(t.TempDir(), "Show Name", "SPs", "Menu.mkv")

	meta, err := p.GetMetadata(context.Background(), EpisodeInfo{
		Path:            path,
		SubjectID:       10,
		RequestedSeason: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, 0, meta.SeasonNumber)
	assert.Equal(t, 0, meta.ID)
}

func TestEpisodeProviderGetMetadata_NoMatchStaysUnenriched(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"/v0/episodes":    episodesOf10(),
		"/v0/subjects/10": subject10(),
	}
	p := newEpisodeProvider(t, handlers, config.Default())

	path := filepath.Join(t.TempDir(), "Show Name - 09.mkv")

	meta, err := p.GetMetadata(context.Background(), EpisodeInfo{
		Path:            path,
		SubjectID:       10,
		RequestedSeason: 1,
	})
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestEpisodeProviderGetMetadata_OverrideOffset(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"/v0/episodes":    episodesOf10(),
		"/v0/subjects/10": subject10(),
	}
	p := newEpisodeProvider(t, handlers, config.Default())

	// The library uses absolute numbering continuing from season 1, so
	// catalog episode 2 displays as 14.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "bangumi.toml"),
		[]byte("offset = 12\n"), 0o644))
	path := filepath.Join(dir, "Show Name - 02.mkv")

	meta, err := p.GetMetadata(context.Background(), EpisodeInfo{
		Path:            path,
		SubjectID:       10,
		RequestedSeason: 2,
	})
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, 14, meta.Index)
	assert.Equal(t, 2, meta.SeasonNumber)
}

func TestEpisodeProviderGetMetadata_OverrideForcesSpecial(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"/v0/episodes":    episodesOf10(),
		"/v0/subjects/10": subject10(),
	}
	p := newEpisodeProvider(t, handlers, config.Default())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "bangumi.toml"),
		[]byte("type = \"special\"\n"), 0o644))
	path := filepath.Join(dir, "Show Name - 01.mkv")

	meta, err := p.GetMetadata(context.Background(), EpisodeInfo{
		Path:            path,
		SubjectID:       10,
		RequestedSeason: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, 102, meta.ID)
	assert.Equal(t, 0, meta.SeasonNumber)
}

func TestEpisodeProviderGetMetadata_EmptyPath(t *testing.T) {
	p := newEpisodeProvider(t, nil, config.Default())

	meta, err := p.GetMetadata(context.Background(), EpisodeInfo{SubjectID: 10})
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestMatchEpisode_FractionalOrder(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"/v0/episodes": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{
				"total": 1, "limit": 100, "offset": 0,
				"data": []map[string]any{
					{"id": 103, "subject_id": 10, "type": 1, "sort": 13.5, "name_cn": "第13.5话", "airdate": "2023-02-01"},
				},
			})
		},
		"/v0/subjects/10": subject10(),
	}
	p := newEpisodeProvider(t, handlers, config.Default())

	path := filepath.Join(t.TempDir(), "Show Name - 13.5.mkv")

	meta, err := p.GetMetadata(context.Background(), EpisodeInfo{
		Path:            path,
		SubjectID:       10,
		RequestedSeason: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, 103, meta.ID)
	// Fractional orders truncate for display.
	assert.Equal(t, 13, meta.Index)
	assert.Equal(t, 0, meta.SeasonNumber)
}
