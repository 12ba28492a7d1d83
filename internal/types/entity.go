package types

// PageMeta is the pagination block of a paginated envelope
type PageMeta struct {
	Total      int  `json:"total"`
	Page       int  `json:"page,omitempty"`
	Limit      int  `json:"limit,omitempty"`
	TotalPages int  `json:"totalPages,omitempty"`
	HasNext    bool `json:"hasNext,omitempty"`
	HasPrev    bool `json:"hasPrev,omitempty"`
}

// Page is a decoded paginated envelope
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// Exercise is an exercise library entry
type Exercise struct {
	ID            string   `json:"_id"`
	Trainer       *string  `json:"trainer"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	VideoLink     string   `json:"video_link,omitempty"`
	Pattern       []string `json:"pattern,omitempty"`
	Type          []string `json:"type,omitempty"`
	PrimaryMuscle []string `json:"primary_muscle,omitempty"`
	Plane         []string `json:"plane,omitempty"`
	Photo         string   `json:"photo,omitempty"`
	ExerciseType  string   `json:"exercise_type,omitempty"`
	Status        string   `json:"status,omitempty"`
	CreatedAt     string   `json:"createdAt,omitempty"`
	UpdatedAt     string   `json:"updatedAt,omitempty"`
}

// ExerciseRequest is the create/update payload for exercises
type ExerciseRequest struct {
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	VideoLink   string   `json:"video_link,omitempty" yaml:"video_link,omitempty"`
	Type        []string `json:"type,omitempty" yaml:"type,omitempty"`
	Photo       string   `json:"photo,omitempty" yaml:"photo,omitempty"`
}

// ExerciseStatusRequest changes the publication status of an exercise
type ExerciseStatusRequest struct {
	Status string `json:"status"`
}

// ExerciseImport is one row of a bulk import
type ExerciseImport struct {
	Title        string `json:"title" yaml:"title"`
	Instructions string `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	VideoLink    string `json:"videoLink,omitempty" yaml:"videoLink,omitempty"`
}

// Trainer is a trainer account
type Trainer struct {
	ID        string `json:"_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar,omitempty"`
	Email     string `json:"email"`
	Role      *Role  `json:"role,omitempty"`
	Status    string `json:"status,omitempty"` // active or suspended
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Trainer statuses
const (
	TrainerActive    = "active"
	TrainerSuspended = "suspended"
)

// IsActive reports whether the trainer counts as active. Missing status is active.
func (t Trainer) IsActive() bool {
	return t.Status == TrainerActive || t.Status == ""
}

// Attachment is a document attached to a trainee
type Attachment struct {
	Title string `json:"title"`
	File  string `json:"file"`
}

// Trainee is a client of a trainer
type Trainee struct {
	ID            string       `json:"_id"`
	FirstName     string       `json:"first_name"`
	LastName      string       `json:"last_name"`
	Email         string       `json:"email"`
	Phone         string       `json:"phone,omitempty"`
	Gender        string       `json:"gender,omitempty"`
	StartWeight   float64      `json:"start_weight,omitempty"`
	CurrentWeight float64      `json:"current_weight,omitempty"`
	TargetWeight  float64      `json:"target_weight,omitempty"`
	Status        string       `json:"status,omitempty"`
	Attachments   []Attachment `json:"attachments,omitempty"`
	CreatedAt     string       `json:"createdAt,omitempty"`
}

// AppUser is an entry of the generic user listing
type AppUser struct {
	ID        string `json:"_id"`
	Image     string `json:"image,omitempty"`
	FullName  string `json:"fullname"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Notification is a push notification managed by admins
type Notification struct {
	ID          string         `json:"_id"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	Target      string         `json:"target,omitempty"`
	Topics      []string       `json:"topics,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
	DeepLink    string         `json:"deepLink,omitempty"`
	Status      string         `json:"status,omitempty"` // draft, sent, scheduled
	ScheduledAt *string        `json:"scheduledAt,omitempty"`
	SentAt      *string        `json:"sentAt,omitempty"`
	CreatedAt   string         `json:"createdAt,omitempty"`
	UpdatedAt   string         `json:"updatedAt,omitempty"`
}

// NotificationRequest creates or updates a notification draft
type NotificationRequest struct {
	Title      string         `json:"title,omitempty" yaml:"title,omitempty"`
	Message    string         `json:"message,omitempty" yaml:"message,omitempty"`
	SendToAll  *bool          `json:"sendToAll,omitempty" yaml:"sendToAll,omitempty"`
	Recipients []string       `json:"recipients,omitempty" yaml:"recipients,omitempty"`
	Data       map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// SendResult is the backend answer when a notification is dispatched
type SendResult struct {
	Message   string `json:"message"`
	FCMResult any    `json:"fcmResult,omitempty"`
}

// LegalContent is a terms-and-conditions or privacy-policy document
type LegalContent struct {
	ID        string `json:"_id,omitempty"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// AppSetting holds platform-wide switches
type AppSetting struct {
	ID                   string `json:"_id"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	CreatedAt            string `json:"createdAt,omitempty"`
	UpdatedAt            string `json:"updatedAt,omitempty"`
}

// DashboardStats is the overview aggregate
type DashboardStats struct {
	TotalUsers     int `json:"totalUsers" yaml:"totalUsers"`
	TotalPrograms  int `json:"totalPrograms" yaml:"totalPrograms"`
	TotalExercises int `json:"totalExercises" yaml:"totalExercises"`
	ActiveUsers    int `json:"activeUsers" yaml:"activeUsers"`
	InactiveUsers  int `json:"inactiveUsers" yaml:"inactiveUsers"`
	TotalTrainers  int `json:"totalTrainers" yaml:"totalTrainers"`
	TotalTrainees  int `json:"totalTrainees" yaml:"totalTrainees"`
}
