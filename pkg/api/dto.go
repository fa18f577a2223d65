package api

import (
	"strings"

	"yawt/pkg/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Request payloads. Create payloads use plain fields; update payloads use
// pointers so an absent field means "leave unchanged" while an explicit
// empty string clears optional fields. Required text fields are trimmed
// before validation.

const maxTitleLen = 500

type seriesCreateReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (q *seriesCreateReq) Validate() error {
	q.Title = strings.TrimSpace(q.Title)
	q.Description = strings.TrimSpace(q.Description)
	return validation.ValidateStruct(q,
		validation.Field(&q.Title, validation.Required, validation.Length(1, maxTitleLen)),
	)
}

type seriesUpdateReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (q *seriesUpdateReq) Validate() error {
	trimPtr(q.Title)
	trimPtr(q.Description)
	return validation.ValidateStruct(q,
		validation.Field(&q.Title, validation.NilOrNotEmpty, validation.Length(1, maxTitleLen)),
	)
}

type bookCreateReq struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	PublishDate string `json:"publishDate"`
	ISBN        string `json:"isbn"`
}

func (q *bookCreateReq) Validate() error {
	q.Title = strings.TrimSpace(q.Title)
	q.Author = strings.TrimSpace(q.Author)
	q.PublishDate = strings.TrimSpace(q.PublishDate)
	q.ISBN = strings.TrimSpace(q.ISBN)
	return validation.ValidateStruct(q,
		validation.Field(&q.Title, validation.Required, validation.Length(1, maxTitleLen)),
	)
}

type bookUpdateReq struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	PublishDate *string `json:"publishDate"`
	ISBN        *string `json:"isbn"`
}

func (q *bookUpdateReq) Validate() error {
	trimPtr(q.Title)
	trimPtr(q.Author)
	trimPtr(q.PublishDate)
	trimPtr(q.ISBN)
	return validation.ValidateStruct(q,
		validation.Field(&q.Title, validation.NilOrNotEmpty, validation.Length(1, maxTitleLen)),
	)
}

type sceneCreateReq struct {
	Text string `json:"text"`
}

type sceneUpdateReq struct {
	Text *string `json:"text"`
}

func (q *sceneUpdateReq) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Text, validation.NotNil),
	)
}

// reorderReq names the neighbours the item should land between. At least
// one must be present; the collection manager validates the rest.
type reorderReq struct {
	BeforeID string `json:"beforeId"`
	AfterID  string `json:"afterId"`
}

type characterCreateReq struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Extra       map[string]any `json:"extra"`
}

func (q *characterCreateReq) Validate() error {
	q.Name = strings.TrimSpace(q.Name)
	q.Description = strings.TrimSpace(q.Description)
	return validation.ValidateStruct(q,
		validation.Field(&q.Name, validation.Required, validation.Length(1, maxTitleLen)),
	)
}

type characterUpdateReq struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Extra       map[string]any `json:"extra"`
}

func (q *characterUpdateReq) Validate() error {
	trimPtr(q.Name)
	trimPtr(q.Description)
	return validation.ValidateStruct(q,
		validation.Field(&q.Name, validation.NilOrNotEmpty, validation.Length(1, maxTitleLen)),
	)
}

type locationCreateReq struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Tags        []string              `json:"tags"`
	Links       []models.LocationLink `json:"links"`
	Coords      *models.Coords        `json:"coords"`
	Extra       map[string]any        `json:"extra"`
}

func (q *locationCreateReq) Validate() error {
	q.Name = strings.TrimSpace(q.Name)
	q.Description = strings.TrimSpace(q.Description)
	return validation.ValidateStruct(q,
		validation.Field(&q.Name, validation.Required, validation.Length(1, maxTitleLen)),
	)
}

type locationUpdateReq struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Tags        []string              `json:"tags"`
	Links       []models.LocationLink `json:"links"`
	Coords      *models.Coords        `json:"coords"`
	Extra       map[string]any        `json:"extra"`
}

func (q *locationUpdateReq) Validate() error {
	trimPtr(q.Name)
	trimPtr(q.Description)
	return validation.ValidateStruct(q,
		validation.Field(&q.Name, validation.NilOrNotEmpty, validation.Length(1, maxTitleLen)),
	)
}

type timelineCreateReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (q *timelineCreateReq) Validate() error {
	q.Title = strings.TrimSpace(q.Title)
	q.Description = strings.TrimSpace(q.Description)
	return validation.ValidateStruct(q,
		validation.Field(&q.Title, validation.Required, validation.Length(1, maxTitleLen)),
	)
}

type timelineUpdateReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (q *timelineUpdateReq) Validate() error {
	trimPtr(q.Title)
	trimPtr(q.Description)
	return validation.ValidateStruct(q,
		validation.Field(&q.Title, validation.NilOrNotEmpty, validation.Length(1, maxTitleLen)),
	)
}

type eventCreateReq struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	LocationID   string   `json:"locationId"`
	CharacterIDs []string `json:"characterIds"`
	SceneIDs     []string `json:"sceneIds"`
	Tags         []string `json:"tags"`
}

func (q *eventCreateReq) Validate() error {
	q.Title = strings.TrimSpace(q.Title)
	q.Description = strings.TrimSpace(q.Description)
	q.StartDate = strings.TrimSpace(q.StartDate)
	q.EndDate = strings.TrimSpace(q.EndDate)
	return validation.ValidateStruct(q,
		validation.Field(&q.Title, validation.Required, validation.Length(1, maxTitleLen)),
	)
}

type eventUpdateReq struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	StartDate    *string  `json:"startDate"`
	EndDate      *string  `json:"endDate"`
	LocationID   *string  `json:"locationId"`
	CharacterIDs []string `json:"characterIds"`
	SceneIDs     []string `json:"sceneIds"`
	Tags         []string `json:"tags"`
}

func (q *eventUpdateReq) Validate() error {
	trimPtr(q.Title)
	trimPtr(q.Description)
	trimPtr(q.StartDate)
	trimPtr(q.EndDate)
	trimPtr(q.LocationID)
	return validation.ValidateStruct(q,
		validation.Field(&q.Title, validation.NilOrNotEmpty, validation.Length(1, maxTitleLen)),
	)
}

type noteCreateReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (q *noteCreateReq) Validate() error {
	q.Title = strings.TrimSpace(q.Title)
	return validation.ValidateStruct(q,
		validation.Field(&q.Title, validation.Required, validation.Length(1, maxTitleLen)),
	)
}

type noteUpdateReq struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (q *noteUpdateReq) Validate() error {
	trimPtr(q.Title)
	return validation.ValidateStruct(q,
		validation.Field(&q.Title, validation.NilOrNotEmpty, validation.Length(1, maxTitleLen)),
	)
}

func trimPtr(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}
