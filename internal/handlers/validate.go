package handlers

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"lancasterhub/internal/models"
)

// Validation limits for submitted content. They match the column sizes in
// the migrations.
const (
	maxNameLen     = 255
	maxTitleLen    = 500
	maxBodyLen     = 50_000
	maxTypeLen     = 50
	maxCategoryLen = 100
	maxLocationLen = 500
	maxURLLen      = 2_000
	maxLangLen     = 10
)

var eventTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

// createPostRequest is the body of POST /api/posts.
type createPostRequest struct {
	AuthorName    string  `json:"author_name"`
	AuthorEmail   *string `json:"author_email"`
	Title         string  `json:"title"`
	Content       *string `json:"content"`
	LinkURL       *string `json:"link_url"`
	ImageURL      *string `json:"image_url"`
	PostType      string  `json:"post_type"`
	Language      string  `json:"language"`
	TextDirection string  `json:"text_direction"`
}

func (req *createPostRequest) normalize() {
	req.AuthorName = strings.TrimSpace(req.AuthorName)
	req.Title = strings.TrimSpace(req.Title)
	req.PostType = strings.TrimSpace(req.PostType)
	if req.PostType == "" {
		req.PostType = "news"
	}
	req.Language = strings.TrimSpace(req.Language)
	req.TextDirection = strings.ToLower(strings.TrimSpace(req.TextDirection))
	req.AuthorEmail = trimOptional(req.AuthorEmail)
	req.Content = trimOptional(req.Content)
	req.LinkURL = trimOptional(req.LinkURL)
	req.ImageURL = trimOptional(req.ImageURL)
}

// Validate checks the request after normalize has run.
func (req createPostRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.AuthorName, validation.Required, validation.RuneLength(1, maxNameLen)),
		validation.Field(&req.AuthorEmail, validation.RuneLength(0, maxNameLen), is.EmailFormat),
		validation.Field(&req.Title, validation.Required, validation.RuneLength(1, maxTitleLen)),
		validation.Field(&req.Content, validation.RuneLength(0, maxBodyLen)),
		validation.Field(&req.LinkURL, validation.RuneLength(0, maxURLLen), is.RequestURL),
		validation.Field(&req.ImageURL, validation.RuneLength(0, maxURLLen), is.RequestURL),
		validation.Field(&req.PostType, validation.RuneLength(1, maxTypeLen)),
		validation.Field(&req.Language, validation.RuneLength(0, maxLangLen)),
		validation.Field(&req.TextDirection, validation.In("ltr", "rtl")),
	)
}

// createEventRequest is the body of POST /api/events.
type createEventRequest struct {
	OrganizerName  string   `json:"organizer_name"`
	OrganizerEmail *string  `json:"organizer_email"`
	Title          string   `json:"title"`
	Description    *string  `json:"description"`
	EventDate      string   `json:"event_date"`
	EventTime      *string  `json:"event_time"`
	Location       *string  `json:"location"`
	Category       *string  `json:"category"`
	IsFree         *bool    `json:"is_free"`
	TicketPrice    *float64 `json:"ticket_price"`
	TicketURL      *string  `json:"ticket_url"`
	Language       string   `json:"language"`
	TextDirection  string   `json:"text_direction"`
}

func (req *createEventRequest) normalize() {
	req.OrganizerName = strings.TrimSpace(req.OrganizerName)
	req.Title = strings.TrimSpace(req.Title)
	req.EventDate = strings.TrimSpace(req.EventDate)
	req.Language = strings.TrimSpace(req.Language)
	req.TextDirection = strings.ToLower(strings.TrimSpace(req.TextDirection))
	req.OrganizerEmail = trimOptional(req.OrganizerEmail)
	req.Description = trimOptional(req.Description)
	req.EventTime = trimOptional(req.EventTime)
	req.Location = trimOptional(req.Location)
	req.Category = trimOptional(req.Category)
	req.TicketURL = trimOptional(req.TicketURL)
}

// Validate checks the request after normalize has run.
func (req createEventRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.OrganizerName, validation.Required, validation.RuneLength(1, maxNameLen)),
		validation.Field(&req.OrganizerEmail, validation.RuneLength(0, maxNameLen), is.EmailFormat),
		validation.Field(&req.Title, validation.Required, validation.RuneLength(1, maxTitleLen)),
		validation.Field(&req.Description, validation.RuneLength(0, maxBodyLen)),
		validation.Field(&req.EventDate, validation.Required, validation.Date(models.DateLayout)),
		validation.Field(&req.EventTime, validation.Match(eventTimePattern).Error("must be HH:MM or HH:MM:SS")),
		validation.Field(&req.Location, validation.RuneLength(0, maxLocationLen)),
		validation.Field(&req.Category, validation.RuneLength(0, maxCategoryLen)),
		validation.Field(&req.TicketPrice, validation.Min(0.0)),
		validation.Field(&req.TicketURL, validation.RuneLength(0, maxURLLen), is.RequestURL),
		validation.Field(&req.Language, validation.RuneLength(0, maxLangLen)),
		validation.Field(&req.TextDirection, validation.In("ltr", "rtl")),
	)
}

// loginRequest is the body of POST /api/admin/login.
type loginRequest struct {
	Password string `json:"password"`
	Code     string `json:"code"`
}

func (req loginRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Password, validation.Required),
		validation.Field(&req.Code, validation.RuneLength(0, 10)),
	)
}

// detectRequest is the body of POST /api/admin/detect-language.
type detectRequest struct {
	Text string `json:"text"`
}

func (req detectRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Text, validation.Required, validation.RuneLength(1, 5_000)),
	)
}

// trimOptional trims s and turns blank strings into nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// normalizeTime pads HH:MM to HH:MM:SS.
func normalizeTime(t *string) *string {
	if t == nil || len(*t) != len("15:04") {
		return t
	}
	v := *t + ":00"
	return &v
}
