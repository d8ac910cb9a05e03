package directory

import (
	"context"
	"fmt"

	"github.com/staffdir/staffdir"
	"github.com/staffdir/staffdir/entity"
)

// NoteService manages free-text records.
type NoteService struct {
	notes       staffdir.Repository[entity.Note]
	departments staffdir.Repository[entity.Department]
}

// NewNoteService creates the note service.
func NewNoteService(notes staffdir.Repository[entity.Note], departments staffdir.Repository[entity.Department]) *NoteService {
	return &NoteService{notes: notes, departments: departments}
}

// NoteInput is the payload for creating or updating a note.
type NoteInput struct {
	Title        string `validate:"required,max=200"`
	Body         string
	DepartmentID *uint
}

// Create validates the input, checks that the referenced department is
// an active one, and commits the new note.
func (s *NoteService) Create(ctx context.Context, actor string, input NoteInput) (*entity.Note, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	if err := s.guardDepartment(ctx, input.DepartmentID); err != nil {
		return nil, err
	}

	note := &entity.Note{Title: input.Title, Body: input.Body, DepartmentID: input.DepartmentID}
	if err := s.notes.Add(ctx, actor, note); err != nil {
		return nil, err
	}
	if err := s.notes.SaveChanges(ctx); err != nil {
		return nil, err
	}
	return note, nil
}

// Update validates the input and commits the changed note.
func (s *NoteService) Update(ctx context.Context, actor string, id uint, input NoteInput) (*entity.Note, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}

	note, err := s.notes.GetByID(ctx, id, staffdir.ActiveOnly())
	if err != nil {
		return nil, err
	}
	if err := s.guardDepartment(ctx, input.DepartmentID); err != nil {
		return nil, err
	}

	note.Title = input.Title
	note.Body = input.Body
	note.DepartmentID = input.DepartmentID

	if err := s.notes.Update(ctx, actor, note); err != nil {
		return nil, err
	}
	if err := s.notes.SaveChanges(ctx); err != nil {
		return nil, err
	}
	return note, nil
}

// Get returns the note with its department loaded.
func (s *NoteService) Get(ctx context.Context, id uint) (*entity.Note, error) {
	return s.notes.GetWithRelated(ctx, id, "Department")
}

// List returns one page of notes, newest first.
func (s *NoteService) List(ctx context.Context, page, pageSize int) (*staffdir.Page[entity.Note], error) {
	return s.notes.GetPaged(ctx, page, pageSize,
		staffdir.OrderBy("CreatedAt", staffdir.OrderDesc))
}

// ListByDepartment returns the active notes of one department.
func (s *NoteService) ListByDepartment(ctx context.Context, departmentID uint) ([]*entity.Note, error) {
	condition, err := staffdir.NewPredicate[entity.Note]().Equals("DepartmentID", departmentID).Build()
	if err != nil {
		return nil, err
	}
	return s.notes.GetWhere(ctx, condition,
		staffdir.OrderBy("CreatedAt", staffdir.OrderDesc))
}

// Search matches the term against title and body.
func (s *NoteService) Search(ctx context.Context, term string) ([]*entity.Note, error) {
	return s.notes.Search(ctx, term, "Title", "Body")
}

// SoftDelete retires the note.
func (s *NoteService) SoftDelete(ctx context.Context, actor string, id uint) error {
	if err := s.notes.SoftDelete(ctx, actor, id); err != nil {
		return err
	}
	return s.notes.SaveChanges(ctx)
}

// Restore brings a retired note back.
func (s *NoteService) Restore(ctx context.Context, actor string, id uint) error {
	if err := s.notes.Restore(ctx, actor, id); err != nil {
		return err
	}
	return s.notes.SaveChanges(ctx)
}

func (s *NoteService) guardDepartment(ctx context.Context, departmentID *uint) error {
	if departmentID == nil {
		return nil
	}
	_, err := s.departments.GetByID(ctx, *departmentID, staffdir.ActiveOnly())
	if staffdir.IsNotFound(err) {
		return staffdir.NewError(staffdir.ErrorTypeInvalidArgument,
			fmt.Sprintf("department %d does not exist", *departmentID))
	}
	return err
}
