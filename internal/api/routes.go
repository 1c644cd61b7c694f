package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты административного API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		RequestID(),
		Logging(h.logger),
	)

	// Processors
	mux.Handle("GET /api/v1/processors", chain(http.HandlerFunc(h.ListProcessors)))
	mux.Handle("POST /api/v1/processors", chain(http.HandlerFunc(h.CreateProcessor)))
	mux.Handle("GET /api/v1/processors/{id}", chain(http.HandlerFunc(h.GetProcessor)))
	mux.Handle("PUT /api/v1/processors/{id}", chain(http.HandlerFunc(h.UpdateProcessor)))
	mux.Handle("DELETE /api/v1/processors/{id}", chain(http.HandlerFunc(h.DeleteProcessor)))

	// Workflows
	mux.Handle("GET /api/v1/workflows", chain(http.HandlerFunc(h.ListWorkflows)))
	mux.Handle("POST /api/v1/workflows", chain(http.HandlerFunc(h.CreateWorkflow)))
	mux.Handle("GET /api/v1/workflows/{id}", chain(http.HandlerFunc(h.GetWorkflow)))
	mux.Handle("DELETE /api/v1/workflows/{id}", chain(http.HandlerFunc(h.DeleteWorkflow)))

	// Steps
	mux.Handle("GET /api/v1/workflows/{id}/steps", chain(http.HandlerFunc(h.ListSteps)))
	mux.Handle("POST /api/v1/workflows/{id}/steps", chain(http.HandlerFunc(h.CreateStep)))
	mux.Handle("GET /api/v1/steps/{id}", chain(http.HandlerFunc(h.GetStep)))
	mux.Handle("PUT /api/v1/steps/{id}", chain(http.HandlerFunc(h.UpdateStep)))
	mux.Handle("DELETE /api/v1/steps/{id}", chain(http.HandlerFunc(h.DeleteStep)))

	// Assignments
	mux.Handle("GET /api/v1/assignments", chain(http.HandlerFunc(h.ListAssignments)))
	mux.Handle("POST /api/v1/assignments", chain(http.HandlerFunc(h.CreateAssignment)))
	mux.Handle("GET /api/v1/assignments/{id}", chain(http.HandlerFunc(h.GetAssignment)))
	mux.Handle("DELETE /api/v1/assignments/{id}", chain(http.HandlerFunc(h.DeleteAssignment)))

	// Orchestrated Flows
	mux.Handle("GET /api/v1/flows", chain(http.HandlerFunc(h.ListFlows)))
	mux.Handle("POST /api/v1/flows", chain(http.HandlerFunc(h.CreateFlow)))
	mux.Handle("GET /api/v1/flows/{id}", chain(http.HandlerFunc(h.GetFlow)))
	mux.Handle("PUT /api/v1/flows/{id}", chain(http.HandlerFunc(h.UpdateFlow)))
	mux.Handle("DELETE /api/v1/flows/{id}", chain(http.HandlerFunc(h.DeleteFlow)))
}
