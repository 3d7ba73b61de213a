package archive

import (
	"fmt"
	"os"

	"github.com/vmunix/animeta/pkg/bangumi"
)

// Archive bundles the per-entity stores and relation indices under one
// directory. It is the offline source of truth when the remote catalog is
// unreachable or intentionally avoided.
type Archive struct {
	Subjects   *Store[bangumi.Subject]
	Episodes   *Store[bangumi.Episode]
	Persons    *Store[bangumi.RelatedPerson]
	Characters *Store[bangumi.RelatedCharacter]

	SubjectEpisodes   *RelationStore // subject → its episodes
	SubjectPersons    *RelationStore // subject → staff
	SubjectCharacters *RelationStore // subject → characters
	SubjectRelations  *RelationStore // subject → next-season subject
}

// Open creates the archive directory if needed and returns the store set.
func Open(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}

	return &Archive{
		Subjects: NewStore(dir, "subject.jsonlines", func(s bangumi.Subject) int { return s.ID }),
		Episodes: NewStore(dir, "episode.jsonlines", func(e bangumi.Episode) int { return e.ID }),
		Persons:  NewStore(dir, "person.jsonlines", func(p bangumi.RelatedPerson) int { return p.ID }),
		Characters: NewStore(dir, "character.jsonlines",
			func(c bangumi.RelatedCharacter) int { return c.ID }),

		SubjectEpisodes:   NewRelationStore(dir, "subject-episode.jsonlines"),
		SubjectPersons:    NewRelationStore(dir, "subject-person.jsonlines"),
		SubjectCharacters: NewRelationStore(dir, "subject-character.jsonlines"),
		SubjectRelations:  NewRelationStore(dir, "subject-relations.jsonlines"),
	}, nil
}

// StoreSubject archives a subject snapshot.
func (a *Archive) StoreSubject(s bangumi.Subject) error {
	return a.Subjects.Append(s)
}

// StoreEpisode archives an episode snapshot and its subject link.
func (a *Archive) StoreEpisode(e bangumi.Episode) error {
	if err := a.Episodes.Append(e); err != nil {
		return err
	}
	return a.SubjectEpisodes.Link(e.SubjectID, e.ID)
}

// StorePerson archives a person snapshot and its subject link.
func (a *Archive) StorePerson(p bangumi.RelatedPerson) error {
	if err := a.Persons.Append(p); err != nil {
		return err
	}
	return a.SubjectPersons.Link(p.SubjectID, p.ID)
}

// StoreCharacter archives a character snapshot and its subject link.
func (a *Archive) StoreCharacter(c bangumi.RelatedCharacter) error {
	if err := a.Characters.Append(c); err != nil {
		return err
	}
	return a.SubjectCharacters.Link(c.SubjectID, c.ID)
}

// EpisodesOf returns the archived episodes linked to a subject.
func (a *Archive) EpisodesOf(subjectID int) ([]bangumi.Episode, error) {
	ids, err := a.SubjectEpisodes.RelatedIDs(subjectID)
	if err != nil {
		return nil, err
	}
	// A link without a record, e.g. from an interrupted refresh, is skipped.
	return a.Episodes.GetMany(ids)
}

// PersonsOf returns the archived staff linked to a subject.
func (a *Archive) PersonsOf(subjectID int) ([]bangumi.RelatedPerson, error) {
	ids, err := a.SubjectPersons.RelatedIDs(subjectID)
	if err != nil {
		return nil, err
	}
	return a.Persons.GetMany(ids)
}

// CharactersOf returns the archived characters linked to a subject.
func (a *Archive) CharactersOf(subjectID int) ([]bangumi.RelatedCharacter, error) {
	ids, err := a.SubjectCharacters.RelatedIDs(subjectID)
	if err != nil {
		return nil, err
	}
	return a.Characters.GetMany(ids)
}

// NextSubjectID returns the archived next-season subject for prevID, or 0.
func (a *Archive) NextSubjectID(prevID int) (int, error) {
	ids, err := a.SubjectRelations.RelatedIDs(prevID)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[0], nil
}
