package documents

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"xmlstore/core"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

type (
	SaveRequest struct {
		Filename string `json:"filename" form:"filename"`
		Content  string `json:"content" form:"content"`
	}
	XMLRequest struct {
		XML string `json:"xml" form:"xml"`
	}

	SaveResponse struct {
		Success  bool   `json:"success"`
		Message  string `json:"message"`
		Filename string `json:"filename"`
		Path     string `json:"path"`
	}
	LoadResponse struct {
		Success  bool   `json:"success"`
		Content  string `json:"content"`
		Filename string `json:"filename"`
	}
	DeleteResponse struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	ListResponse struct {
		Success bool     `json:"success"`
		Files   []string `json:"files"`
		Count   int      `json:"count"`
		Storage string   `json:"storage"`
	}
	ParseResponse struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	ValidateResponse struct {
		Success bool   `json:"success"`
		Valid   bool   `json:"valid"`
		Message string `json:"message"`
		Error   string `json:"error,omitempty"`
		Line    int    `json:"line,omitempty"`
	}

	ErrorResponse struct {
		Error    string          `json:"error"`
		Message  string          `json:"message,omitempty"`
		Line     int             `json:"line,omitempty"`
		Missing  []string        `json:"missing,omitempty"`
		Received map[string]bool `json:"received,omitempty"`
	}
)

// Routes mounts the document endpoints on r.
func Routes(r chi.Router, service *core.DocumentService) {
	r.Post("/save", HandleSave(service))
	r.Get("/load/{filename}", HandleLoad(service))
	r.Delete("/delete/{filename}", HandleDelete(service))
	r.Get("/files", HandleList(service))
	r.Post("/parse", HandleParse(service))
	r.Post("/validate", HandleValidate(service))
}

func HandleSave(service *core.DocumentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := &SaveRequest{}
		if err := decodeRequest(r, data); err != nil {
			renderBadBody(w, r, err)
			return
		}

		result, err := service.Save(r.Context(), data.Filename, data.Content)
		if err != nil {
			var missing *core.MissingFieldError
			if errors.As(err, &missing) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, ErrorResponse{
					Error:   "Filename and content are required",
					Missing: missing.Fields,
					Received: map[string]bool{
						"filename": data.Filename != "",
						"content":  data.Content != "",
					},
				})
				return
			}
			renderError(w, r, "save", err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, SaveResponse{
			Success:  true,
			Message:  "File saved successfully",
			Filename: result.Filename,
			Path:     result.Path,
		})
	}
}

func HandleLoad(service *core.DocumentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename, err := filenameParam(r)
		if err != nil {
			renderError(w, r, "load", err)
			return
		}
		content, err := service.Load(r.Context(), filename)
		if err != nil {
			renderError(w, r, "load", err)
			return
		}
		render.Status(r, http.StatusOK)
		render.JSON(w, r, LoadResponse{Success: true, Content: content, Filename: filename})
	}
}

func HandleDelete(service *core.DocumentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename, err := filenameParam(r)
		if err != nil {
			renderError(w, r, "delete", err)
			return
		}
		if err := service.Delete(r.Context(), filename); err != nil {
			renderError(w, r, "delete", err)
			return
		}
		render.Status(r, http.StatusOK)
		render.JSON(w, r, DeleteResponse{Success: true, Message: "File deleted successfully"})
	}
}

func HandleList(service *core.DocumentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := service.List(r.Context())
		if err != nil {
			renderError(w, r, "list", err)
			return
		}
		render.Status(r, http.StatusOK)
		render.JSON(w, r, ListResponse{
			Success: true,
			Files:   files,
			Count:   len(files),
			Storage: service.Location(),
		})
	}
}

func HandleParse(service *core.DocumentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := &XMLRequest{}
		if err := decodeRequest(r, data); err != nil {
			renderBadBody(w, r, err)
			return
		}
		result, err := service.Parse(data.XML)
		if err != nil {
			renderError(w, r, "parse", err)
			return
		}
		render.Status(r, http.StatusOK)
		render.JSON(w, r, ParseResponse{Success: true, Data: result})
	}
}

// HandleValidate answers 200 for both outcomes; validity is in the body.
func HandleValidate(service *core.DocumentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := &XMLRequest{}
		if err := decodeRequest(r, data); err != nil {
			renderBadBody(w, r, err)
			return
		}
		invalid, err := service.Validate(data.XML)
		if err != nil {
			renderError(w, r, "validate", err)
			return
		}

		render.Status(r, http.StatusOK)
		if invalid != nil {
			render.JSON(w, r, ValidateResponse{
				Success: false,
				Valid:   false,
				Message: "XML is invalid",
				Error:   invalid.Msg,
				Line:    invalid.Line,
			})
			return
		}
		render.JSON(w, r, ValidateResponse{Success: true, Valid: true, Message: "XML is valid"})
	}
}

// decodeRequest reads a form-encoded or JSON body; any other content type is
// read as JSON. An empty body decodes to an empty request so missing fields
// are reported as such.
func decodeRequest(r *http.Request, v any) error {
	var err error
	switch render.GetRequestContentType(r) {
	case render.ContentTypeForm:
		err = render.DecodeForm(r.Body, v)
	default:
		err = render.DecodeJSON(r.Body, v)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// filenameParam returns the decoded {filename} segment. chi matches on
// RawPath when the request path holds escapes that Path cannot represent
// (such as %2F), leaving the param escaped; otherwise it is already decoded
// and must not be unescaped again.
func filenameParam(r *http.Request) (string, error) {
	name := chi.URLParam(r, "filename")
	if r.URL.RawPath == "" {
		return name, nil
	}
	name, err := url.PathUnescape(name)
	if err != nil {
		return "", errors.Join(core.ErrInvalidFilename, err)
	}
	return name, nil
}

func renderBadBody(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		render.Status(r, http.StatusRequestEntityTooLarge)
		render.JSON(w, r, ErrorResponse{Error: "Request body too large", Message: err.Error()})
		return
	}
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Error: "Invalid request body", Message: err.Error()})
}

// renderError maps service errors onto status codes. Anything unclassified
// is reported as a 500 with the underlying message.
func renderError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var (
		missing    *core.MissingFieldError
		validation *core.ValidationError
		parse      *core.ParseError
		status     int
		body       ErrorResponse
	)

	switch {
	case errors.As(err, &missing):
		status = http.StatusBadRequest
		body = ErrorResponse{Error: missingMessage(missing), Missing: missing.Fields}
	case errors.As(err, &validation):
		status = http.StatusBadRequest
		body = ErrorResponse{Error: "Invalid XML format", Message: validation.Msg, Line: validation.Line}
	case errors.As(err, &parse):
		status = http.StatusBadRequest
		body = ErrorResponse{Error: "Invalid XML format", Message: parse.Msg, Line: parse.Line}
	case errors.Is(err, core.ErrInvalidFilename):
		status = http.StatusBadRequest
		body = ErrorResponse{Error: "Invalid filename", Message: err.Error()}
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
		body = ErrorResponse{Error: "File not found"}
	default:
		status = http.StatusInternalServerError
		body = ErrorResponse{Error: "Failed to " + op + " file", Message: err.Error()}
		logrus.WithFields(logrus.Fields{"op": op, "error": err}).Error("Request failed")
	}

	render.Status(r, status)
	render.JSON(w, r, body)
}

func missingMessage(err *core.MissingFieldError) string {
	if len(err.Fields) == 1 && err.Fields[0] == "xml" {
		return "XML content is required"
	}
	if len(err.Fields) == 1 && err.Fields[0] == "filename" {
		return "Filename is required"
	}
	return "Filename and content are required"
}
