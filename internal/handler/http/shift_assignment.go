package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/shift_assignment"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AssignmentHandler interface {
	Assign(w http.ResponseWriter, r *http.Request)
	BulkAssign(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
	RemoveEmployee(w http.ResponseWriter, r *http.Request)
	ListEmployeeAssignments(w http.ResponseWriter, r *http.Request)
	EmployeeShift(w http.ResponseWriter, r *http.Request)
	MyShift(w http.ResponseWriter, r *http.Request)
	MySchedule(w http.ResponseWriter, r *http.Request)
	EmployeeCounts(w http.ResponseWriter, r *http.Request)
	ShiftEmployees(w http.ResponseWriter, r *http.Request)
}

type assignmentHandlerImpl struct {
	assignmentService shift_assignment.AssignmentService
}

func NewAssignmentHandler(assignmentService shift_assignment.AssignmentService) AssignmentHandler {
	return &assignmentHandlerImpl{assignmentService: assignmentService}
}

func (h *assignmentHandlerImpl) Assign(w http.ResponseWriter, r *http.Request) {
	var req shift_assignment.AssignShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ShiftID = chi.URLParam(r, "id")

	result, err := h.assignmentService.AssignShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift assigned successfully", result)
}

func (h *assignmentHandlerImpl) BulkAssign(w http.ResponseWriter, r *http.Request) {
	var req shift_assignment.BulkAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ShiftID = chi.URLParam(r, "id")

	result, err := h.assignmentService.BulkAssign(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift assigned successfully", result)
}

func (h *assignmentHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req shift_assignment.UpdateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "assignmentId")

	result, err := h.assignmentService.UpdateAssignment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift assignment updated successfully", result)
}

func (h *assignmentHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "assignmentId")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid assignment ID", nil)
		return
	}

	if err := h.assignmentService.DeactivateAssignment(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift assignment deactivated successfully", nil)
}

func (h *assignmentHandlerImpl) RemoveEmployee(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "id")
	employeeID := chi.URLParam(r, "employeeId")
	if !validator.IsValidUUID(shiftID) || !validator.IsValidUUID(employeeID) {
		response.BadRequest(w, "Invalid shift or employee ID", nil)
		return
	}

	if err := h.assignmentService.RemoveEmployeeFromShift(r.Context(), shiftID, employeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee removed from shift successfully", nil)
}

func (h *assignmentHandlerImpl) ListEmployeeAssignments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// Active assignments unless asked otherwise; "all" lifts the filter.
	isActive := true
	filter := shift_assignment.EmployeeAssignmentFilter{
		EmployeeID: chi.URLParam(r, "employeeId"),
		IsActive:   &isActive,
	}
	switch active := query.Get("is_active"); active {
	case "":
	case "all":
		filter.IsActive = nil
	default:
		parsed, err := strconv.ParseBool(active)
		if err != nil {
			response.BadRequest(w, "is_active must be true, false or all", nil)
			return
		}
		filter.IsActive = &parsed
	}

	if date := query.Get("date"); date != "" {
		filter.Date = &date
	}

	results, err := h.assignmentService.ListEmployeeAssignments(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

func (h *assignmentHandlerImpl) EmployeeShift(w http.ResponseWriter, r *http.Request) {
	result, err := h.assignmentService.GetEmployeeShift(r.Context(), chi.URLParam(r, "employeeId"), r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *assignmentHandlerImpl) MyShift(w http.ResponseWriter, r *http.Request) {
	result, err := h.assignmentService.GetMyShift(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *assignmentHandlerImpl) MySchedule(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	result, err := h.assignmentService.GetMySchedule(r.Context(), shift_assignment.ScheduleRequest{
		From: query.Get("from"),
		To:   query.Get("to"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *assignmentHandlerImpl) EmployeeCounts(w http.ResponseWriter, r *http.Request) {
	result, err := h.assignmentService.GetEmployeeCounts(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *assignmentHandlerImpl) ShiftEmployees(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := shift_assignment.ShiftEmployeesFilter{
		ShiftID: chi.URLParam(r, "id"),
		Date:    query.Get("date"),
		Page:    1,
		Limit:   20,
	}

	if search := query.Get("search"); search != "" {
		filter.Search = &search
	}

	if p := query.Get("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			filter.Page = pageNum
		}
	}
	if l := query.Get("limit"); l != "" {
		if limitNum, err := strconv.Atoi(l); err == nil && limitNum > 0 {
			filter.Limit = limitNum
		}
	}

	results, err := h.assignmentService.ListShiftEmployees(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}
