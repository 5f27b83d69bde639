package controllers

import (
	"net/http"

	"github.com/autolane/autolane-backend/api/responses"
	"github.com/autolane/autolane-backend/internal/documents"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
	"github.com/autolane/autolane-backend/pkg/logger"
)

// ListTaskDocuments returns the document checklist for a stage task.
func ListTaskDocuments(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "documents service unavailable"))
			return
		}

		customerID, err := customerIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		taskID, err := routeUUID(r, "taskId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		docs, err := svc.ListForTask(r.Context(), customerID, taskID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"documents": docs})
	}
}

// MarkDocumentUploaded records a completed document upload and rolls the
// containing task forward when the checklist is done.
func MarkDocumentUploaded(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "documents service unavailable"))
			return
		}

		customerID, err := customerIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		documentID, err := routeUUID(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.MarkUploaded(r.Context(), documents.MarkUploadedInput{
			DocumentID: documentID,
			CustomerID: customerID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
