package routers

import (
	"formbridge-service/internal/app/delivery/http/middlewares"
	"formbridge-service/internal/app/services/core/submissions"
	"formbridge-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachSubmissionRoutes(router chi.Router, m *middlewares.Middlewares, submissionController *submissions.SubmissionController) {
	router.Use(m.APIKeyAuth)

	router.Post("/", submissionController.CreateSubmission)
	router.Post("/preview", submissionController.PreviewSubmission)
	router.Post("/enqueue", submissionController.EnqueueSubmission)
	router.Get("/{"+constvars.URLParamSubmissionID+"}", submissionController.FindSubmissionByID)
	router.Put("/{"+constvars.URLParamSubmissionID+"}", submissionController.AmendSubmission)
	router.Delete("/{"+constvars.URLParamSubmissionID+"}", submissionController.RetractSubmission)
}
