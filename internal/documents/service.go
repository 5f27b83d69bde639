// Package documents manages the file requirements attached to shipment
// stage tasks. Uploading the last required document completes the owning
// task and bumps the stage's completed-task counter.
package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autolane/autolane-backend/pkg/db/models"
	"github.com/autolane/autolane-backend/pkg/enums"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
	"github.com/autolane/autolane-backend/pkg/outbox"
	"github.com/autolane/autolane-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// DocumentView is the caller-facing document record.
type DocumentView struct {
	ID         uuid.UUID  `json:"id"`
	TaskID     uuid.UUID  `json:"taskId"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Required   bool       `json:"required"`
	Uploaded   bool       `json:"uploaded"`
	UploadedAt *time.Time `json:"uploadedAt,omitempty"`
}

// MarkUploadedInput identifies the document a customer confirmed uploading.
type MarkUploadedInput struct {
	DocumentID uuid.UUID
	CustomerID uuid.UUID
}

// MarkUploadedResult reports the side effects of an upload.
type MarkUploadedResult struct {
	Document      DocumentView `json:"document"`
	TaskCompleted bool         `json:"taskCompleted"`
}

// Service exposes document listing and upload confirmation.
type Service interface {
	ListForTask(ctx context.Context, customerID, taskID uuid.UUID) ([]DocumentView, error)
	MarkUploaded(ctx context.Context, input MarkUploadedInput) (*MarkUploadedResult, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	now    func() time.Time
}

// NewService builds a documents service with the required dependencies.
func NewService(repo Repository, tx txRunner, publisher outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("documents repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		outbox: publisher,
		now:    time.Now,
	}, nil
}

func (s *service) ListForTask(ctx context.Context, customerID, taskID uuid.UUID) ([]DocumentView, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if taskID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "task id required")
	}

	task, err := s.loadTask(ctx, s.repo, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadOwnedShipmentForStage(ctx, s.repo, customerID, task.StageID); err != nil {
		return nil, err
	}

	views := make([]DocumentView, 0, len(task.Documents))
	for _, doc := range task.Documents {
		views = append(views, mapDocument(doc))
	}
	return views, nil
}

func (s *service) MarkUploaded(ctx context.Context, input MarkUploadedInput) (*MarkUploadedResult, error) {
	if input.DocumentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document id required")
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	var result *MarkUploadedResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		document, err := repo.FindDocument(ctx, input.DocumentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document")
		}
		if document.Uploaded {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "document already uploaded")
		}

		task, err := s.loadTask(ctx, repo, document.TaskID)
		if err != nil {
			return err
		}
		shipment, err := s.loadOwnedShipmentForStage(ctx, repo, input.CustomerID, task.StageID)
		if err != nil {
			return err
		}

		now := s.now()
		if err := repo.UpdateDocument(ctx, document.ID, map[string]any{
			"uploaded":    true,
			"uploaded_at": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark document uploaded")
		}
		document.Uploaded = true
		document.UploadedAt = &now

		taskCompleted := false
		if task.Status != enums.TaskStatusCompleted && allRequiredUploaded(task.Documents, document.ID) {
			if err := repo.UpdateTask(ctx, task.ID, map[string]any{
				"status":       enums.TaskStatusCompleted,
				"completed_at": now,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete task")
			}
			stage, err := repo.FindStage(ctx, task.StageID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stage")
			}
			if err := repo.UpdateStage(ctx, stage.ID, map[string]any{
				"tasks_completed": stage.TasksCompleted + 1,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump stage task counter")
			}
			taskCompleted = true
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventDocumentUploaded,
			AggregateType: enums.AggregateDocument,
			AggregateID:   document.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{CustomerID: input.CustomerID},
			Data: payloads.DocumentUploadedEvent{
				DocumentID: document.ID,
				TaskID:     task.ID,
				ShipmentID: shipment.ID,
				CustomerID: shipment.CustomerID,
				Name:       document.Name,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}

		result = &MarkUploadedResult{
			Document:      mapDocument(*document),
			TaskCompleted: taskCompleted,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) loadTask(ctx context.Context, repo Repository, taskID uuid.UUID) (*models.StageTask, error) {
	task, err := repo.FindTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load task")
	}
	return task, nil
}

func (s *service) loadOwnedShipmentForStage(ctx context.Context, repo Repository, customerID, stageID uuid.UUID) (*models.Shipment, error) {
	stage, err := repo.FindStage(ctx, stageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stage not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stage")
	}
	shipment, err := repo.FindShipment(ctx, stage.ShipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipment")
	}
	if shipment.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "document does not belong to customer")
	}
	return shipment, nil
}

// allRequiredUploaded treats justUploaded as uploaded regardless of the
// snapshot, which predates this transaction's write.
func allRequiredUploaded(docs []models.Document, justUploaded uuid.UUID) bool {
	for _, doc := range docs {
		if !doc.Required {
			continue
		}
		if doc.ID == justUploaded {
			continue
		}
		if !doc.Uploaded {
			return false
		}
	}
	return true
}

func mapDocument(doc models.Document) DocumentView {
	return DocumentView{
		ID:         doc.ID,
		TaskID:     doc.TaskID,
		Name:       doc.Name,
		Type:       doc.Type,
		Required:   doc.Required,
		Uploaded:   doc.Uploaded,
		UploadedAt: doc.UploadedAt,
	}
}
