package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vmunix/animeta/pkg/bangumi"
)

func TestClassify(t *testing.T) {
	subject := &bangumi.Subject{ID: 10, AirDate: "2022-10-08"}

	tests := []struct {
		name string
		in   ClassifyInput
		want Classification
	}{
		{
			name: "normal episode keeps requested season",
			in: ClassifyInput{
				Episode:         bangumi.Episode{Type: bangumi.EpisodeTypeNormal, AirDate: "2022-10-15"},
				Subject:         subject,
				RequestedSeason: 2,
			},
			want: Classification{SeasonNumber: 2},
		},
		{
			name: "normal episode under season container uses parent index",
			in: ClassifyInput{
				Episode:           bangumi.Episode{Type: bangumi.EpisodeTypeNormal},
				Subject:           subject,
				RequestedSeason:   -1,
				ParentIsSeason:    true,
				ParentSeasonIndex: 3,
			},
			want: Classification{SeasonNumber: 3},
		},
		{
			name: "folder heuristic overrides normal type",
			in: ClassifyInput{
				Episode:          bangumi.Episode{Type: bangumi.EpisodeTypeNormal, AirDate: "2023-03-01"},
				Subject:          subject,
				HeuristicSpecial: true,
				RequestedSeason:  1,
			},
			want: Classification{Special: true, AirsAfterSeason: 1, EnrichFromSubject: true},
		},
		{
			name: "catalog special lands in specials bucket",
			in: ClassifyInput{
				Episode:         bangumi.Episode{Type: bangumi.EpisodeTypeSpecial, AirDate: "2023-03-01"},
				Subject:         subject,
				RequestedSeason: 1,
			},
			want: Classification{Special: true, AirsAfterSeason: 1, EnrichFromSubject: true},
		},
		{
			name: "requested season zero forces specials bucket",
			in: ClassifyInput{
				Episode:         bangumi.Episode{Type: bangumi.EpisodeTypeNormal, AirDate: "2023-03-01"},
				Subject:         subject,
				RequestedSeason: 0,
			},
			want: Classification{Special: true, AirsAfterSeason: 1, EnrichFromSubject: true},
		},
		{
			name: "special airing before the season airs before it",
			in: ClassifyInput{
				Episode:         bangumi.Episode{Type: bangumi.EpisodeTypeSpecial, AirDate: "2022-09-01"},
				Subject:         subject,
				RequestedSeason: 1,
			},
			want: Classification{Special: true, AirsBeforeSeason: 1, EnrichFromSubject: true},
		},
		{
			name: "special under season container places against that season",
			in: ClassifyInput{
				Episode:           bangumi.Episode{Type: bangumi.EpisodeTypeSpecial, AirDate: "2023-03-01"},
				Subject:           subject,
				RequestedSeason:   -1,
				ParentIsSeason:    true,
				ParentSeasonIndex: 2,
			},
			want: Classification{Special: true, AirsAfterSeason: 2, EnrichFromSubject: true},
		},
		{
			name: "opening without air date defaults to airing after",
			in: ClassifyInput{
				Episode:         bangumi.Episode{Type: bangumi.EpisodeTypeOpening},
				Subject:         subject,
				RequestedSeason: 1,
			},
			want: Classification{Special: true, AirsAfterSeason: 1, EnrichFromSubject: true},
		},
		{
			name: "missing subject gets no placement",
			in: ClassifyInput{
				Episode:         bangumi.Episode{Type: bangumi.EpisodeTypeSpecial, AirDate: "2022-09-01"},
				RequestedSeason: 1,
			},
			want: Classification{Special: true, EnrichFromSubject: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.in))
		})
	}
}
