package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"city-issues-api/models"
)

// RequestService owns the request lifecycle: creation, assignment, status
// transitions and citizen approval. Every mutation is RBAC-checked against
// the policy table, serialized per request id, and followed by event
// dispatch to the notification and reward consumers once the primary write
// has committed.
type RequestService struct {
	db         *gorm.DB
	dispatcher dispatcher
	locks      sync.Map // request id -> *sync.Mutex
}

func NewRequestService(db *gorm.DB, consumers ...EventConsumer) *RequestService {
	return &RequestService{
		db:         db,
		dispatcher: dispatcher{consumers: consumers},
	}
}

// lock serializes the read-check-write sequence for one request id.
// Operations on different ids proceed in parallel.
func (s *RequestService) lock(id uint) func() {
	value, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

type PhotoInput struct {
	FilePath string
	Type     models.PhotoType
}

type SubmitInput struct {
	Category    models.Category
	Description string
	Lat         *float64
	Lng         *float64
	Address     string
	Priority    models.Priority
	Photos      []PhotoInput
}

// Submit creates a request in pending state with its problem photos.
// Citizens only. The submitting citizen is credited and every admin is
// notified via the event consumers.
func (s *RequestService) Submit(actor Actor, in SubmitInput) (*models.Request, error) {
	if err := authorize(OpSubmit, actor, nil); err != nil {
		return nil, err
	}

	if in.Category == "" || in.Description == "" || in.Lat == nil || in.Lng == nil {
		return nil, validationErr("missing required fields: category, description, lat, lng")
	}
	if !in.Category.Valid() {
		return nil, validationErr(fmt.Sprintf("invalid category %q", in.Category))
	}
	if len(in.Photos) == 0 {
		return nil, validationErr("at least one photo is required")
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, validationErr(fmt.Sprintf("invalid priority %q", priority))
	}

	request := models.Request{
		CitizenID:   actor.ID,
		Category:    in.Category,
		Description: in.Description,
		Lat:         *in.Lat,
		Lng:         *in.Lng,
		Address:     in.Address,
		Priority:    priority,
		Status:      models.StatusPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		now := time.Now()
		for _, p := range in.Photos {
			photo := models.Photo{
				RequestID:  request.ID,
				PhotoType:  models.PhotoProblem,
				FilePath:   p.FilePath,
				UploadedBy: actor.ID,
				UploadedAt: now,
			}
			if err := tx.Create(&photo).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	s.dispatcher.Dispatch(Event{
		Kind:       EventSubmitted,
		Request:    request,
		Actor:      actor,
		OccurredAt: time.Now(),
	})

	return s.findByID(request.ID)
}

type ListFilter struct {
	Status   models.Status
	Category models.Category
}

// List returns requests visible to the actor, newest first. Citizens see
// their own, workers see requests assigned to them, admins see all.
func (s *RequestService) List(actor Actor, filter ListFilter) ([]models.Request, error) {
	query := s.db.Model(&models.Request{}).
		Select("requests.*, citizen.full_name AS citizen_name, worker.full_name AS worker_name").
		Joins("LEFT JOIN users citizen ON citizen.id = requests.citizen_id").
		Joins("LEFT JOIN users worker ON worker.id = requests.assigned_worker_id")

	switch actor.Role {
	case models.RoleCitizen:
		query = query.Where("requests.citizen_id = ?", actor.ID)
	case models.RoleWorker:
		query = query.Where("requests.assigned_worker_id = ?", actor.ID)
	}

	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, validationErr(fmt.Sprintf("invalid status %q", filter.Status))
		}
		query = query.Where("requests.status = ?", filter.Status)
	}
	if filter.Category != "" {
		if !filter.Category.Valid() {
			return nil, validationErr(fmt.Sprintf("invalid category %q", filter.Category))
		}
		query = query.Where("requests.category = ?", filter.Category)
	}

	var requests []models.Request
	if err := query.Order("requests.created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return requests, nil
}

// Get returns one request with photos and work logs, subject to the view
// policy.
func (s *RequestService) Get(actor Actor, id uint) (*models.Request, error) {
	request, err := s.findByID(id)
	if err != nil {
		return nil, err
	}
	if err := authorize(OpView, actor, request); err != nil {
		return nil, err
	}
	return request, nil
}

// AssignWorker sets the assignee and deadline and moves the request to
// assigned. Admins only. Re-assignment simply overwrites worker and
// deadline. The worker role is verified before anything is written.
func (s *RequestService) AssignWorker(actor Actor, id, workerID uint, deadline *time.Time) (*models.Request, error) {
	if err := authorize(OpAssignWorker, actor, nil); err != nil {
		return nil, err
	}
	if workerID == 0 {
		return nil, validationErr("workerId is required")
	}

	unlock := s.lock(id)
	defer unlock()

	if _, err := s.findByID(id); err != nil {
		return nil, err
	}

	var worker models.User
	err := s.db.Where("id = ? AND role = ?", workerID, models.RoleWorker).First(&worker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidWorker
	}
	if err != nil {
		return nil, fmt.Errorf("look up worker %d: %w", workerID, err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"assigned_worker_id": workerID,
		"deadline":           deadline,
		"status":             models.StatusAssigned,
		"assigned_at":        now,
		"updated_at":         now,
	}
	if err := s.db.Model(&models.Request{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("assign worker: %w", err)
	}

	request, err := s.findByID(id)
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(Event{
		Kind:       EventAssigned,
		Request:    *request,
		Actor:      actor,
		Deadline:   deadline,
		OccurredAt: now,
	})

	return request, nil
}

// statusTimestamps maps a target status to the timestamp column stamped
// when the transition happens.
var statusTimestamps = map[models.Status]string{
	models.StatusAssigned:   "assigned_at",
	models.StatusInProgress: "started_at",
	models.StatusCompleted:  "completed_at",
}

// UpdateStatus moves a request to one of assigned, in_progress, completed
// or cancelled. Workers may only act on requests assigned to them; admins
// on any; citizens never. Completed and cancelled requests cannot leave
// their state through this operation.
func (s *RequestService) UpdateStatus(actor Actor, id uint, target models.Status) (*models.Request, error) {
	switch target {
	case models.StatusAssigned, models.StatusInProgress, models.StatusCompleted, models.StatusCancelled:
	default:
		return nil, validationErr(fmt.Sprintf("invalid status %q", target))
	}

	unlock := s.lock(id)
	defer unlock()

	request, err := s.findByID(id)
	if err != nil {
		return nil, err
	}
	if err := authorize(OpUpdateStatus, actor, request); err != nil {
		return nil, err
	}

	if request.Status == models.StatusCompleted || request.Status == models.StatusCancelled {
		return nil, fmt.Errorf("%w: cannot change status from %s to %s",
			ErrInvalidTransition, request.Status, target)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     target,
		"updated_at": now,
	}
	if column, ok := statusTimestamps[target]; ok {
		updates[column] = now
	}
	if err := s.db.Model(&models.Request{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	prev := request.Status
	request, err = s.findByID(id)
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(Event{
		Kind:       EventStatusChanged,
		Request:    *request,
		Actor:      actor,
		PrevStatus: prev,
		OccurredAt: now,
	})

	return request, nil
}

// Approve records the owning citizen's verdict on completed work.
// Confirmation makes the request terminal and credits the worker; a
// rejection sends it back to in_progress for rework.
func (s *RequestService) Approve(actor Actor, id uint, approved bool, comment string) (*models.Request, error) {
	unlock := s.lock(id)
	defer unlock()

	request, err := s.findByID(id)
	if err != nil {
		return nil, err
	}
	if err := authorize(OpApprove, actor, request); err != nil {
		return nil, err
	}

	if request.Status != models.StatusCompleted {
		return nil, validationErr("request must be completed before approval")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"citizen_approved": approved,
		"updated_at":       now,
	}
	if approved {
		updates["status"] = models.StatusApproved
		updates["approved_at"] = now
	} else {
		updates["status"] = models.StatusInProgress
	}
	if err := s.db.Model(&models.Request{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("record approval: %w", err)
	}

	prev := request.Status
	request, err = s.findByID(id)
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(Event{
		Kind:       EventApproved,
		Request:    *request,
		Actor:      actor,
		PrevStatus: prev,
		Approved:   &approved,
		Comment:    comment,
		OccurredAt: now,
	})

	return request, nil
}

// AddPhoto attaches evidence to an existing request. Workers document
// before/after states on their assigned requests; citizens may add more
// problem photos to their own.
func (s *RequestService) AddPhoto(actor Actor, requestID uint, photoType models.PhotoType, filePath string) (*models.Photo, error) {
	if !photoType.Valid() {
		return nil, validationErr(fmt.Sprintf("invalid photo type %q", photoType))
	}
	if actor.Role == models.RoleCitizen && photoType != models.PhotoProblem {
		return nil, validationErr("citizens can only upload problem photos")
	}

	request, err := s.findByID(requestID)
	if err != nil {
		return nil, err
	}
	if err := authorize(OpAddPhoto, actor, request); err != nil {
		return nil, err
	}

	photo := models.Photo{
		RequestID:  requestID,
		PhotoType:  photoType,
		FilePath:   filePath,
		UploadedBy: actor.ID,
		UploadedAt: time.Now(),
	}
	if err := s.db.Create(&photo).Error; err != nil {
		return nil, fmt.Errorf("save photo: %w", err)
	}
	return &photo, nil
}

// Photos lists a request's photos in upload order, subject to the view
// policy.
func (s *RequestService) Photos(actor Actor, requestID uint) ([]models.Photo, error) {
	request, err := s.findByID(requestID)
	if err != nil {
		return nil, err
	}
	if err := authorize(OpView, actor, request); err != nil {
		return nil, err
	}

	var photos []models.Photo
	if err := s.db.Where("request_id = ?", requestID).Order("uploaded_at").Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return photos, nil
}

type WorkLogInput struct {
	StartTime       time.Time
	EndTime         *time.Time
	DurationMinutes int
	Notes           string
}

// LogWork records a time-tracking entry. Only the assigned worker may log
// against a request.
func (s *RequestService) LogWork(actor Actor, requestID uint, in WorkLogInput) (*models.WorkLog, error) {
	request, err := s.findByID(requestID)
	if err != nil {
		return nil, err
	}
	if err := authorize(OpLogWork, actor, request); err != nil {
		return nil, err
	}

	if in.StartTime.IsZero() {
		return nil, validationErr("start_time is required")
	}
	if in.DurationMinutes == 0 && in.EndTime != nil && in.EndTime.After(in.StartTime) {
		in.DurationMinutes = int(in.EndTime.Sub(in.StartTime).Minutes())
	}
	if in.DurationMinutes < 0 {
		return nil, validationErr("duration must not be negative")
	}

	entry := models.WorkLog{
		RequestID:       requestID,
		WorkerID:        actor.ID,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		DurationMinutes: in.DurationMinutes,
		Notes:           in.Notes,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("save work log: %w", err)
	}
	return &entry, nil
}

// findByID loads a request with display names, photos in upload order and
// work logs in creation order.
func (s *RequestService) findByID(id uint) (*models.Request, error) {
	var request models.Request
	err := s.db.Model(&models.Request{}).
		Select("requests.*, citizen.full_name AS citizen_name, worker.full_name AS worker_name").
		Joins("LEFT JOIN users citizen ON citizen.id = requests.citizen_id").
		Joins("LEFT JOIN users worker ON worker.id = requests.assigned_worker_id").
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at")
		}).
		Preload("WorkLogs", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at")
		}).
		Where("requests.id = ?", id).
		First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load request %d: %w", id, err)
	}
	return &request, nil
}
