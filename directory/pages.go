package directory

import (
	"context"
	"fmt"

	"github.com/staffdir/staffdir"
	"github.com/staffdir/staffdir/entity"
)

// PageContentService manages the editable blocks of site copy.
type PageContentService struct {
	pages staffdir.Repository[entity.PageContent]
}

// NewPageContentService creates the page content service.
func NewPageContentService(pages staffdir.Repository[entity.PageContent]) *PageContentService {
	return &PageContentService{pages: pages}
}

// PageContentInput is the payload for creating or updating a block.
type PageContentInput struct {
	Section string `validate:"required,max=100"`
	Title   string `validate:"max=200"`
	Body    string
}

// Create validates the input, guards section uniqueness, and commits
// the new block.
func (s *PageContentService) Create(ctx context.Context, actor string, input PageContentInput) (*entity.PageContent, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	if err := s.guardUniqueSection(ctx, input.Section, 0); err != nil {
		return nil, err
	}

	page := &entity.PageContent{Section: input.Section, Title: input.Title, Body: input.Body}
	if err := s.pages.Add(ctx, actor, page); err != nil {
		return nil, err
	}
	if err := s.pages.SaveChanges(ctx); err != nil {
		return nil, err
	}
	return page, nil
}

// Update validates the input, re-guards uniqueness against other rows,
// and commits the changed block.
func (s *PageContentService) Update(ctx context.Context, actor string, id uint, input PageContentInput) (*entity.PageContent, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}

	page, err := s.pages.GetByID(ctx, id, staffdir.ActiveOnly())
	if err != nil {
		return nil, err
	}
	if err := s.guardUniqueSection(ctx, input.Section, id); err != nil {
		return nil, err
	}

	page.Section = input.Section
	page.Title = input.Title
	page.Body = input.Body

	if err := s.pages.Update(ctx, actor, page); err != nil {
		return nil, err
	}
	if err := s.pages.SaveChanges(ctx); err != nil {
		return nil, err
	}
	return page, nil
}

// GetBySection returns the active block for the section, matched
// case-insensitively.
func (s *PageContentService) GetBySection(ctx context.Context, section string) (*entity.PageContent, error) {
	condition, err := staffdir.NewPredicate[entity.PageContent]().EqualsFold("Section", section).Build()
	if err != nil {
		return nil, err
	}
	pages, err := s.pages.GetWhere(ctx, condition)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, staffdir.NewError(staffdir.ErrorTypeNotFound,
			fmt.Sprintf("no content for section %q", section))
	}
	return pages[0], nil
}

// List returns all active blocks sorted by section.
func (s *PageContentService) List(ctx context.Context) ([]*entity.PageContent, error) {
	return s.pages.GetAll(ctx, staffdir.OrderBy("Section", staffdir.OrderAsc))
}

// SoftDelete retires the block, keeping its section reserved.
func (s *PageContentService) SoftDelete(ctx context.Context, actor string, id uint) error {
	if err := s.pages.SoftDelete(ctx, actor, id); err != nil {
		return err
	}
	return s.pages.SaveChanges(ctx)
}

// Restore brings a retired block back.
func (s *PageContentService) Restore(ctx context.Context, actor string, id uint) error {
	if err := s.pages.Restore(ctx, actor, id); err != nil {
		return err
	}
	return s.pages.SaveChanges(ctx)
}

func (s *PageContentService) guardUniqueSection(ctx context.Context, section string, excludeID uint) error {
	unique, err := s.pages.IsFieldUnique(ctx, "Section", section, excludeID)
	if err != nil {
		return err
	}
	if !unique {
		return staffdir.NewError(staffdir.ErrorTypeDuplicate,
			fmt.Sprintf("section %q already exists", section))
	}
	return nil
}
