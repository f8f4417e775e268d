package handler

import (
	"net/http"

	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// SemesterResponse is the body of GET /semester.
type SemesterResponse struct {
	Date openapi_types.Date `json:"date"`
	Code string             `json:"code"`
}

// GetSemester handles GET /semester?date=YYYY-MM-DD.
// It reports the semester code the merge would use for that signup date.
func (s *Server) GetSemester(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("date") == "" {
		requestError(w, "date parameter is required")
		return
	}

	var d openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, true, "date", r.URL.Query(), &d); err != nil {
		requestError(w, "invalid date parameter: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SemesterResponse{Date: d, Code: s.merge.SemesterCode(d.Time)})
}
