package resume

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resumebuilder/internal/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, db.AutoMigrate(database.AllModels()...), "migrate")
	return db
}

func seedResume(t *testing.T, s *Store, userID uint) *database.Resume {
	t.Helper()
	ctx := context.Background()
	r, err := s.Create(ctx, userID, "Jane's Resume", "modern")
	require.NoError(t, err)
	require.NoError(t, s.CreatePersonalInfo(ctx, &database.PersonalInfo{
		ResumeID: r.ID,
		FullName: "Jane Doe",
		Email:    "jane@example.com",
	}))
	return r
}

func educationPairs(t *testing.T, s *Store, resumeID uint) [][2]string {
	t.Helper()
	doc, err := s.LoadDocument(context.Background(), resumeID)
	require.NoError(t, err)
	pairs := make([][2]string, 0, len(doc.Education))
	for _, e := range doc.Education {
		pairs = append(pairs, [2]string{e.Degree, e.Institution})
	}
	return pairs
}

func TestApplyEdit_ReplacesAllPriorRows(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)
	r := seedResume(t, s, 1)
	ctx := context.Background()

	first := EditSnapshot{
		PersonalInfo: PersonalInfoInput{FullName: "Jane Doe", Email: "jane@example.com"},
		Education: EducationInput{
			Degrees:      []string{"BSc"},
			Institutions: []string{"X"},
		},
	}
	require.NoError(t, s.ApplyEdit(ctx, r.ID, first))
	assert.Equal(t, [][2]string{{"BSc", "X"}}, educationPairs(t, s, r.ID))

	second := EditSnapshot{
		PersonalInfo: first.PersonalInfo,
		Education: EducationInput{
			Degrees:      []string{"BSc", "MSc"},
			Institutions: []string{"X", "Y"},
		},
	}
	require.NoError(t, s.ApplyEdit(ctx, r.ID, second))
	assert.Equal(t, [][2]string{{"BSc", "X"}, {"MSc", "Y"}}, educationPairs(t, s, r.ID))
}

func TestApplyEdit_SkipsEmptyPrimaryEntries(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)
	r := seedResume(t, s, 1)

	snap := EditSnapshot{
		PersonalInfo: PersonalInfoInput{FullName: "Jane Doe", Email: "jane@example.com"},
		Education: EducationInput{
			Degrees:      []string{"", "PhD"},
			Institutions: []string{"ignored", "Z"},
		},
	}
	require.NoError(t, s.ApplyEdit(context.Background(), r.ID, snap))

	pairs := educationPairs(t, s, r.ID)
	require.Len(t, pairs, 1)
	assert.Equal(t, [2]string{"PhD", "Z"}, pairs[0])
}

func TestApplyEdit_EmptyReplaceClearsSection(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)
	r := seedResume(t, s, 1)
	ctx := context.Background()

	require.NoError(t, s.ApplyEdit(ctx, r.ID, EditSnapshot{
		PersonalInfo: PersonalInfoInput{FullName: "Jane Doe", Email: "jane@example.com"},
		Skills:       SkillInput{Names: []string{"Go", "SQL"}},
	}))

	require.NoError(t, s.ApplyEdit(ctx, r.ID, EditSnapshot{
		PersonalInfo: PersonalInfoInput{FullName: "Jane Doe", Email: "jane@example.com"},
	}))

	doc, err := s.LoadDocument(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, doc.Skills)
}

func TestApplyEdit_Idempotent(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)
	r := seedResume(t, s, 1)
	ctx := context.Background()

	snap := EditSnapshot{
		PersonalInfo: PersonalInfoInput{FullName: "Jane Doe", Email: "jane@example.com"},
		Education: EducationInput{
			Degrees:      []string{"BSc", "MSc"},
			Institutions: []string{"X", "Y"},
		},
		Experience: ExperienceInput{
			JobTitles: []string{"Engineer"},
			Companies: []string{"Acme"},
		},
	}

	require.NoError(t, s.ApplyEdit(ctx, r.ID, snap))
	firstPairs := educationPairs(t, s, r.ID)

	require.NoError(t, s.ApplyEdit(ctx, r.ID, snap))
	assert.Equal(t, firstPairs, educationPairs(t, s, r.ID))

	doc, err := s.LoadDocument(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, "Engineer", doc.Experience[0].JobTitle)
}

func TestApplyEdit_RaggedSecondaryListsDefaultEmpty(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)
	r := seedResume(t, s, 1)

	snap := EditSnapshot{
		PersonalInfo: PersonalInfoInput{FullName: "Jane Doe", Email: "jane@example.com"},
		Education: EducationInput{
			Degrees:      []string{"BSc", "MSc", "PhD"},
			Institutions: []string{"X"},
			StartYears:   []string{"2015", "not-a-year"},
		},
	}
	require.NoError(t, s.ApplyEdit(context.Background(), r.ID, snap))

	doc, err := s.LoadDocument(context.Background(), r.ID)
	require.NoError(t, err)
	require.Len(t, doc.Education, 3)
	assert.Equal(t, "X", doc.Education[0].Institution)
	assert.Equal(t, "", doc.Education[1].Institution)
	assert.Equal(t, "", doc.Education[2].Institution)
	assert.Equal(t, 2015, doc.Education[0].StartYear)
	assert.Equal(t, 0, doc.Education[1].StartYear)
}

func TestApplyEdit_SkillLevelDefaultsToIntermediate(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)
	r := seedResume(t, s, 1)

	snap := EditSnapshot{
		PersonalInfo: PersonalInfoInput{FullName: "Jane Doe", Email: "jane@example.com"},
		Skills: SkillInput{
			Names:  []string{"Go", "SQL"},
			Levels: []string{"expert"},
		},
	}
	require.NoError(t, s.ApplyEdit(context.Background(), r.ID, snap))

	doc, err := s.LoadDocument(context.Background(), r.ID)
	require.NoError(t, err)
	require.Len(t, doc.Skills, 2)
	assert.Equal(t, "expert", doc.Skills[0].Level)
	assert.Equal(t, DefaultSkillLevel, doc.Skills[1].Level)
}

func TestApplyEdit_SectionReplacementIsSectionLocal(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)
	r := seedResume(t, s, 1)
	ctx := context.Background()

	require.NoError(t, s.ApplyEdit(ctx, r.ID, EditSnapshot{
		PersonalInfo: PersonalInfoInput{FullName: "Jane Doe", Email: "jane@example.com"},
		Education:    EducationInput{Degrees: []string{"BSc"}},
		Experience:   ExperienceInput{JobTitles: []string{"Engineer"}},
	}))

	// Replacing education alone leaves experience untouched.
	require.NoError(t, s.ApplyEdit(ctx, r.ID, EditSnapshot{
		PersonalInfo: PersonalInfoInput{FullName: "Jane Doe", Email: "jane@example.com"},
		Education:    EducationInput{Degrees: []string{"MSc"}},
		Experience:   ExperienceInput{JobTitles: []string{"Engineer"}},
	}))

	doc, err := s.LoadDocument(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, doc.Education, 1)
	assert.Equal(t, "MSc", doc.Education[0].Degree)
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, "Engineer", doc.Experience[0].JobTitle)
}

func TestApplyEdit_MaterializesMissingPersonalInfo(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)
	ctx := context.Background()

	// Second creation step never ran for this resume.
	r, err := s.Create(ctx, 1, "Orphan", "modern")
	require.NoError(t, err)

	require.NoError(t, s.ApplyEdit(ctx, r.ID, EditSnapshot{
		PersonalInfo: PersonalInfoInput{FullName: "Late Arrival", Email: "late@example.com"},
	}))

	doc, err := s.LoadDocument(ctx, r.ID)
	require.NoError(t, err)
	require.NotNil(t, doc.Info)
	assert.Equal(t, "Late Arrival", doc.Info.FullName)
	assert.Equal(t, database.DefaultProfilePic, doc.Info.ProfilePic)
}

func TestApplyEdit_PreservesProfilePicWhenNotProvided(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)
	r := seedResume(t, s, 1)
	ctx := context.Background()

	key := "profile_1_20250101_000000_abcd1234.png"
	require.NoError(t, db.Model(&database.PersonalInfo{}).
		Where("resume_id = ?", r.ID).
		Update("profile_pic", key).Error)

	require.NoError(t, s.ApplyEdit(ctx, r.ID, EditSnapshot{
		PersonalInfo: PersonalInfoInput{FullName: "Jane Doe", Email: "jane@example.com"},
	}))

	doc, err := s.LoadDocument(ctx, r.ID)
	require.NoError(t, err)
	require.NotNil(t, doc.Info)
	assert.Equal(t, key, doc.Info.ProfilePic)
}

func TestDelete_RemovesOwnedRowsOnly(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)
	ctx := context.Background()

	victim := seedResume(t, s, 1)
	other := seedResume(t, s, 1)

	for _, r := range []*database.Resume{victim, other} {
		require.NoError(t, s.ApplyEdit(ctx, r.ID, EditSnapshot{
			PersonalInfo: PersonalInfoInput{FullName: "Jane Doe", Email: "jane@example.com"},
			Education:    EducationInput{Degrees: []string{"BSc"}},
			Skills:       SkillInput{Names: []string{"Go"}},
		}))
		require.NoError(t, db.Create(&database.ResumeAnalytic{
			UserID: 1, ResumeID: r.ID, Action: "view",
		}).Error)
	}

	require.NoError(t, s.Delete(ctx, victim.ID))

	_, err := s.Get(ctx, victim.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, model := range []any{
		&database.PersonalInfo{},
		&database.Education{},
		&database.Skill{},
		&database.ResumeAnalytic{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Where("resume_id = ?", victim.ID).Count(&count).Error)
		assert.Zero(t, count, "victim rows must be gone")

		require.NoError(t, db.Model(model).Where("resume_id = ?", other.ID).Count(&count).Error)
		assert.NotZero(t, count, "other resume rows must survive")
	}
}

func TestIncrementDownloadCount(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)
	r := seedResume(t, s, 1)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.IncrementDownloadCount(ctx, r.ID))
	}

	got, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.DownloadCount)
}

func TestSearch_MatchesTitleAndFullName(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)
	ctx := context.Background()

	jane := seedResume(t, s, 1)

	dev, err := s.Create(ctx, 1, "Backend Developer", "classic")
	require.NoError(t, err)
	require.NoError(t, s.CreatePersonalInfo(ctx, &database.PersonalInfo{
		ResumeID: dev.ID,
		FullName: "Marta Kowalski",
		Email:    "marta@example.com",
	}))

	_, err = s.Create(ctx, 2, "Jane Impostor", "modern")
	require.NoError(t, err)

	byTitle, err := s.Search(ctx, 1, "jane")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, jane.ID, byTitle[0].ID)

	byName, err := s.Search(ctx, 1, "kowalski")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, dev.ID, byName[0].ID)

	none, err := s.Search(ctx, 1, "nonexistent")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStatistics_CompletionPercentage(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)
	r := seedResume(t, s, 1)
	ctx := context.Background()

	require.NoError(t, s.ApplyEdit(ctx, r.ID, EditSnapshot{
		PersonalInfo: PersonalInfoInput{FullName: "Jane Doe", Email: "jane@example.com"},
		Education:    EducationInput{Degrees: []string{"BSc"}},
		Skills:       SkillInput{Names: []string{"Go"}},
	}))

	stats, err := s.Statistics(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, stats.PersonalInfo)
	assert.Equal(t, int64(1), stats.EducationCount)
	assert.Equal(t, int64(0), stats.ExperienceCount)
	assert.Equal(t, int64(1), stats.SkillCount)
	assert.InDelta(t, 50.0, stats.CompletionPercentage, 0.01)
}
