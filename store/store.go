package store

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"plangen/models/roadmap"
	"plangen/progress"
)

// Store is the persistence layer for roadmap definitions and progress rows.
// Every progress write is an upsert on the row's unique key (last write
// wins) followed by a change-feed publish. The handle is constructor
// injected; there is no package-level instance.
type Store struct {
	db   *gorm.DB
	feed *Feed
}

// New wraps an open gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db, feed: NewFeed()}
}

// DB exposes the underlying connection for callers outside the progress
// path (admin CRUD, calendar, orders).
func (s *Store) DB() *gorm.DB { return s.db }

// Subscribe taps the change feed. See Feed.Subscribe.
func (s *Store) Subscribe(table string, filter Filter) (<-chan Event, func()) {
	return s.feed.Subscribe(table, filter)
}

// ModuleByID fetches one module.
func (s *Store) ModuleByID(moduleID uint) (roadmap.Module, error) {
	var m roadmap.Module
	err := s.db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&m).Error
	return m, err
}

// StepsByModule returns a module's steps in roadmap order.
func (s *Store) StepsByModule(moduleID uint) ([]roadmap.Step, error) {
	var steps []roadmap.Step
	err := s.db.Where("module_id = ? AND is_deleted = ?", moduleID, false).
		Order("order_index").
		Find(&steps).Error
	return steps, err
}

// StepByID fetches one step.
func (s *Store) StepByID(stepID uint) (roadmap.Step, error) {
	var step roadmap.Step
	err := s.db.Where("id = ? AND is_deleted = ?", stepID, false).First(&step).Error
	return step, err
}

// StepProgressFor returns a learner's status per step id for one dashboard.
func (s *Store) StepProgressFor(profileID, dashboardID uint) (map[uint]progress.Status, error) {
	var rows []roadmap.StepProgress
	err := s.db.Where("profile_id = ? AND dashboard_id = ?", profileID, dashboardID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	statusByStep := make(map[uint]progress.Status, len(rows))
	for _, row := range rows {
		statusByStep[row.RoadmapID] = progress.Status(row.Status)
	}
	return statusByStep, nil
}

// UpsertStepProgress writes one status row keyed by
// (profile_id, dashboard_id, roadmap_id) and publishes the change.
func (s *Store) UpsertStepProgress(row roadmap.StepProgress) error {
	typ, err := s.upsert(&row, existsWhere(s.db, &roadmap.StepProgress{},
		"profile_id = ? AND dashboard_id = ? AND roadmap_id = ?", row.ProfileID, row.DashboardID, row.RoadmapID),
		[]string{"profile_id", "dashboard_id", "roadmap_id"}, []string{"status", "updated_at"})
	if err != nil {
		return err
	}
	s.feed.Publish(Event{Type: typ, Table: roadmap.StepProgress{}.TableName(), Row: row}, row.ProfileID, row.DashboardID)
	return nil
}

// QuizItemsForStep returns a step's quiz items in order.
func (s *Store) QuizItemsForStep(stepID uint) ([]roadmap.QuizItem, error) {
	var items []roadmap.QuizItem
	err := s.db.Where("roadmap_id = ? AND is_deleted = ?", stepID, false).
		Order("order_index").
		Find(&items).Error
	return items, err
}

// QuizProgressFor returns stored quiz results keyed by quiz id.
func (s *Store) QuizProgressFor(profileID, dashboardID uint, quizIDs []uint) (map[uint]roadmap.QuizProgress, error) {
	if len(quizIDs) == 0 {
		return map[uint]roadmap.QuizProgress{}, nil
	}
	var rows []roadmap.QuizProgress
	err := s.db.Where("profile_id = ? AND dashboard_id = ? AND quiz_id IN ?", profileID, dashboardID, quizIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	byQuiz := make(map[uint]roadmap.QuizProgress, len(rows))
	for _, row := range rows {
		byQuiz[row.QuizID] = row
	}
	return byQuiz, nil
}

// UpsertQuizProgress writes one row per graded quiz item, keyed by
// (quiz_id, profile_id, dashboard_id).
func (s *Store) UpsertQuizProgress(rows []roadmap.QuizProgress) error {
	for i := range rows {
		row := rows[i]
		typ, err := s.upsert(&row, existsWhere(s.db, &roadmap.QuizProgress{},
			"quiz_id = ? AND profile_id = ? AND dashboard_id = ?", row.QuizID, row.ProfileID, row.DashboardID),
			[]string{"quiz_id", "profile_id", "dashboard_id"}, []string{"selected_answers", "is_correct", "updated_at"})
		if err != nil {
			return err
		}
		s.feed.Publish(Event{Type: typ, Table: roadmap.QuizProgress{}.TableName(), Row: row}, row.ProfileID, row.DashboardID)
	}
	return nil
}

// ChecklistItemsForStep returns a step's checklist items in order.
func (s *Store) ChecklistItemsForStep(stepID uint) ([]roadmap.ChecklistItem, error) {
	var items []roadmap.ChecklistItem
	err := s.db.Where("roadmap_id = ? AND is_deleted = ?", stepID, false).
		Order("order_index").
		Find(&items).Error
	return items, err
}

// ChecklistItemByID fetches one checklist item.
func (s *Store) ChecklistItemByID(itemID uint) (roadmap.ChecklistItem, error) {
	var item roadmap.ChecklistItem
	err := s.db.Where("id = ? AND is_deleted = ?", itemID, false).First(&item).Error
	return item, err
}

// ChecklistProgressFor returns checklist states keyed by checklist item id.
func (s *Store) ChecklistProgressFor(profileID, dashboardID uint, itemIDs []uint) (map[uint]roadmap.ChecklistProgress, error) {
	if len(itemIDs) == 0 {
		return map[uint]roadmap.ChecklistProgress{}, nil
	}
	var rows []roadmap.ChecklistProgress
	err := s.db.Where("profile_id = ? AND dashboard_id = ? AND checklist_id IN ?", profileID, dashboardID, itemIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	byItem := make(map[uint]roadmap.ChecklistProgress, len(rows))
	for _, row := range rows {
		byItem[row.ChecklistID] = row
	}
	return byItem, nil
}

// UpsertChecklistProgress writes one checkbox row keyed by
// (checklist_id, profile_id, dashboard_id).
func (s *Store) UpsertChecklistProgress(row roadmap.ChecklistProgress) error {
	typ, err := s.upsert(&row, existsWhere(s.db, &roadmap.ChecklistProgress{},
		"checklist_id = ? AND profile_id = ? AND dashboard_id = ?", row.ChecklistID, row.ProfileID, row.DashboardID),
		[]string{"checklist_id", "profile_id", "dashboard_id"}, []string{"is_completed", "updated_at"})
	if err != nil {
		return err
	}
	s.feed.Publish(Event{Type: typ, Table: roadmap.ChecklistProgress{}.TableName(), Row: row}, row.ProfileID, row.DashboardID)
	return nil
}

func existsWhere(db *gorm.DB, model any, query string, args ...any) bool {
	var count int64
	db.Model(model).Where(query, args...).Count(&count)
	return count > 0
}

func (s *Store) upsert(row any, exists bool, conflictCols, updateCols []string) (progress.EventType, error) {
	columns := make([]clause.Column, len(conflictCols))
	for i, c := range conflictCols {
		columns[i] = clause.Column{Name: c}
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   columns,
		DoUpdates: clause.AssignmentColumns(updateCols),
	}).Create(row).Error
	if err != nil {
		return "", err
	}
	if exists {
		return progress.EventUpdate, nil
	}
	return progress.EventInsert, nil
}
