package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// ProcessorResponse — процессор из API.
type ProcessorResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
}

// WorkflowResponse — workflow из API.
type WorkflowResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// StepResponse — шаг workflow из API.
type StepResponse struct {
	ID          string   `json:"id"`
	WorkflowID  string   `json:"workflow_id"`
	Name        string   `json:"name,omitempty"`
	ProcessorID string   `json:"processor_id"`
	NextStepIDs []string `json:"next_step_ids,omitempty"`
	CreatedAt   string   `json:"created_at"`
}

// AssignmentResponse — assignment из API.
type AssignmentResponse struct {
	ID        string `json:"id"`
	StepID    string `json:"step_id"`
	Name      string `json:"name"`
	Value     string `json:"value"`
	Position  int    `json:"position"`
	CreatedAt string `json:"created_at"`
}

// FlowResponse — orchestrated flow из API.
type FlowResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	WorkflowID    string   `json:"workflow_id"`
	AssignmentIDs []string `json:"assignment_ids,omitempty"`
	Payload       string   `json:"payload,omitempty"`
	IsActive      bool     `json:"is_active"`
	CreatedAt     string   `json:"created_at"`
}

// StartResponse — ответ управляющего API на запуск.
type StartResponse struct {
	OrchestratedFlowID string `json:"orchestratedFlowId"`
	StartedAt          string `json:"startedAt"`
}

// StatusResponse — статус оркестрации из управляющего API.
type StatusResponse struct {
	OrchestratedFlowID string `json:"orchestratedFlowId"`
	IsActive           bool   `json:"isActive"`
	StartedAt          string `json:"startedAt,omitempty"`
	ExpiresAt          string `json:"expiresAt,omitempty"`
	StepCount          int    `json:"stepCount"`
	AssignmentCount    int    `json:"assignmentCount"`
}

// --- Request types ---

// CreateProcessorRequest — регистрация процессора.
type CreateProcessorRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateWorkflowRequest — создание workflow.
type CreateWorkflowRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateStepRequest — создание шага.
type CreateStepRequest struct {
	Name        string   `json:"name,omitempty"`
	ProcessorID string   `json:"processor_id"`
	NextStepIDs []string `json:"next_step_ids,omitempty"`
}

// CreateAssignmentRequest — создание assignment.
type CreateAssignmentRequest struct {
	StepID   string `json:"step_id"`
	Name     string `json:"name"`
	Value    string `json:"value"`
	Position int    `json:"position"`
}

// CreateFlowRequest — создание orchestrated flow.
type CreateFlowRequest struct {
	Name          string   `json:"name"`
	WorkflowID    string   `json:"workflow_id"`
	AssignmentIDs []string `json:"assignment_ids,omitempty"`
	Payload       string   `json:"payload,omitempty"`
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для двух поверхностей Conveyor: административного
// API (CRUD) и управляющего API оркестратора (start/stop/status).
type Client struct {
	apiURL     string
	controlURL string
	httpClient *http.Client
}

// NewClient создаёт клиент.
func NewClient(apiURL, controlURL string) *Client {
	return &Client{
		apiURL:     apiURL,
		controlURL: controlURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Processors ---

// ListProcessors возвращает все процессоры.
func (c *Client) ListProcessors() ([]ProcessorResponse, error) {
	var processors []ProcessorResponse
	err := c.list("/api/v1/processors", &processors)
	return processors, err
}

// CreateProcessor регистрирует процессор.
func (c *Client) CreateProcessor(req CreateProcessorRequest) (*ProcessorResponse, error) {
	var processor ProcessorResponse
	err := c.post("/api/v1/processors", req, &processor)
	return &processor, err
}

// GetProcessor возвращает процессор по ID.
func (c *Client) GetProcessor(id string) (*ProcessorResponse, error) {
	var processor ProcessorResponse
	err := c.get("/api/v1/processors/"+id, &processor)
	return &processor, err
}

// DeleteProcessor удаляет процессор.
func (c *Client) DeleteProcessor(id string) error {
	return c.delete("/api/v1/processors/" + id)
}

// --- Workflows & Steps ---

// ListWorkflows возвращает все workflows.
func (c *Client) ListWorkflows() ([]WorkflowResponse, error) {
	var workflows []WorkflowResponse
	err := c.list("/api/v1/workflows", &workflows)
	return workflows, err
}

// CreateWorkflow создаёт workflow.
func (c *Client) CreateWorkflow(req CreateWorkflowRequest) (*WorkflowResponse, error) {
	var workflow WorkflowResponse
	err := c.post("/api/v1/workflows", req, &workflow)
	return &workflow, err
}

// GetWorkflow возвращает workflow по ID.
func (c *Client) GetWorkflow(id string) (*WorkflowResponse, error) {
	var workflow WorkflowResponse
	err := c.get("/api/v1/workflows/"+id, &workflow)
	return &workflow, err
}

// DeleteWorkflow удаляет workflow.
func (c *Client) DeleteWorkflow(id string) error {
	return c.delete("/api/v1/workflows/" + id)
}

// ListSteps возвращает шаги workflow.
func (c *Client) ListSteps(workflowID string) ([]StepResponse, error) {
	var steps []StepResponse
	err := c.list("/api/v1/workflows/"+workflowID+"/steps", &steps)
	return steps, err
}

// CreateStep создаёт шаг внутри workflow.
func (c *Client) CreateStep(workflowID string, req CreateStepRequest) (*StepResponse, error) {
	var step StepResponse
	err := c.post("/api/v1/workflows/"+workflowID+"/steps", req, &step)
	return &step, err
}

// DeleteStep удаляет шаг.
func (c *Client) DeleteStep(id string) error {
	return c.delete("/api/v1/steps/" + id)
}

// --- Assignments ---

// ListAssignments возвращает все assignments.
func (c *Client) ListAssignments() ([]AssignmentResponse, error) {
	var assignments []AssignmentResponse
	err := c.list("/api/v1/assignments", &assignments)
	return assignments, err
}

// CreateAssignment создаёт assignment.
func (c *Client) CreateAssignment(req CreateAssignmentRequest) (*AssignmentResponse, error) {
	var assignment AssignmentResponse
	err := c.post("/api/v1/assignments", req, &assignment)
	return &assignment, err
}

// DeleteAssignment удаляет assignment.
func (c *Client) DeleteAssignment(id string) error {
	return c.delete("/api/v1/assignments/" + id)
}

// --- Orchestrated Flows ---

// ListFlows возвращает все orchestrated flows.
func (c *Client) ListFlows() ([]FlowResponse, error) {
	var flows []FlowResponse
	err := c.list("/api/v1/flows", &flows)
	return flows, err
}

// CreateFlow создаёт orchestrated flow.
func (c *Client) CreateFlow(req CreateFlowRequest) (*FlowResponse, error) {
	var flow FlowResponse
	err := c.post("/api/v1/flows", req, &flow)
	return &flow, err
}

// GetFlow возвращает orchestrated flow по ID.
func (c *Client) GetFlow(id string) (*FlowResponse, error) {
	var flow FlowResponse
	err := c.get("/api/v1/flows/"+id, &flow)
	return &flow, err
}

// DeleteFlow удаляет orchestrated flow.
func (c *Client) DeleteFlow(id string) error {
	return c.delete("/api/v1/flows/" + id)
}

// --- Orchestration (управляющий API, без data-обёртки) ---

// StartOrchestration запускает оркестрацию потока.
func (c *Client) StartOrchestration(id string) (*StartResponse, error) {
	var start StartResponse
	err := c.control(http.MethodPost, "/orchestration/start/"+id, &start)
	return &start, err
}

// StopOrchestration останавливает оркестрацию.
func (c *Client) StopOrchestration(id string) error {
	return c.control(http.MethodPost, "/orchestration/stop/"+id, nil)
}

// OrchestrationStatus возвращает статус оркестрации.
func (c *Client) OrchestrationStatus(id string) (*StatusResponse, error) {
	var status StatusResponse
	err := c.control(http.MethodGet, "/orchestration/status/"+id, &status)
	return &status, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) delete(path string) error {
	resp, err := c.do(http.MethodDelete, c.apiURL+path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) list(path string, result any) error {
	resp, err := c.do(http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, c.apiURL+path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

// control выполняет запрос к управляющему API: его ответы — плоский JSON
// по контракту, без data-обёртки.
func (c *Client) control(method, path string, result any) error {
	resp, err := c.do(method, c.controlURL+path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	if result == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) do(method, url string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
