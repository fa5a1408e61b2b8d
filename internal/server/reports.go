package server

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ukaji3/ticketreport-go/internal/logging"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/models"
)

// Download formats.
const (
	FormatZip  = "zip"
	FormatPPTX = "pptx"
	FormatHTML = "html"
)

// ZipFilename names the bundle returned for format=zip.
const ZipFilename = "Sumadhura_Ticket_Report.zip"

// RunIDHeader carries the generation run id on successful responses.
const RunIDHeader = "X-Report-Run-ID"

// reportRequest holds the form fields of POST /api/v1/reports.
type reportRequest struct {
	Sheet      string `form:"sheet"`
	HeaderRow  string `form:"header_row" validate:"omitempty,number"`
	DateColumn string `form:"date_column"`
	Threshold  string `form:"threshold" validate:"omitempty,numeric"`
	Primary    string `form:"primary"`
	Secondary  string `form:"secondary"`
	Tertiary   string `form:"tertiary"`
	Format     string `form:"format" validate:"omitempty,oneof=zip pptx html"`
}

var validate = newRequestValidator()

// newRequestValidator reports fields by their form names.
func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	return v
}

func readRequest(form *multipart.Form) reportRequest {
	get := func(key string) string {
		if vs := form.Value[key]; len(vs) > 0 {
			return strings.TrimSpace(vs[0])
		}
		return ""
	}
	return reportRequest{
		Sheet:      get("sheet"),
		HeaderRow:  get("header_row"),
		DateColumn: get("date_column"),
		Threshold:  get("threshold"),
		Primary:    get("primary"),
		Secondary:  get("secondary"),
		Tertiary:   get("tertiary"),
		Format:     strings.ToLower(get("format")),
	}
}

// apply overrides the defaults with the fields that were sent.
func (req reportRequest) apply(opts *ticketreport.Options) {
	if req.Sheet != "" {
		opts.Sheet = req.Sheet
	}
	if req.HeaderRow != "" {
		opts.HeaderRow, _ = strconv.Atoi(req.HeaderRow)
	}
	if req.DateColumn != "" {
		opts.DateColumn = req.DateColumn
	}
	if req.Threshold != "" {
		opts.GroupThreshold, _ = strconv.ParseFloat(req.Threshold, 64)
	}
	if req.Primary != "" {
		opts.Branding.Primary = req.Primary
	}
	if req.Secondary != "" {
		opts.Branding.Secondary = req.Secondary
	}
	if req.Tertiary != "" {
		opts.Branding.Tertiary = req.Tertiary
	}
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.metrics.observe(OutcomeInvalid, start)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, newError(http.StatusRequestEntityTooLarge, CodePayloadTooLarge,
				"Upload exceeds the size limit", fmt.Sprintf("limit is %d bytes", tooLarge.Limit)))
			return
		}
		writeError(w, r, newError(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error()))
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := readRequest(r.MultipartForm)
	if err := validate.Struct(req); err != nil {
		s.metrics.observe(OutcomeInvalid, start)
		writeError(w, r, validationError(describeRequestError(err)))
		return
	}

	workbook, err := formFile(r.MultipartForm, "file")
	if err != nil {
		s.metrics.observe(OutcomeInvalid, start)
		writeError(w, r, validationError(err.Error()))
		return
	}
	if workbook == nil {
		s.metrics.observe(OutcomeInvalid, start)
		writeError(w, r, validationError("file is required"))
		return
	}

	opts := s.defaults
	req.apply(&opts)
	logo, err := formFile(r.MultipartForm, "logo")
	if err != nil {
		s.metrics.observe(OutcomeInvalid, start)
		writeError(w, r, validationError(err.Error()))
		return
	}
	if logo != nil {
		opts.Branding.Logo = logo
	}
	opts.Logger = s.log.With(slog.String("request_id", logging.RequestID(r.Context())))

	report, err := ticketreport.Generate(bytes.NewReader(workbook), opts)
	if err != nil {
		apiErr := fromGenerateError(err)
		switch apiErr.ErrorCode {
		case CodeValidationFailed:
			s.metrics.observe(OutcomeInvalid, start)
		case CodeDateColumnNotFound:
			s.metrics.observe(OutcomeColumnNotFound, start)
		default:
			s.metrics.observe(OutcomeGenerationError, start)
		}
		writeError(w, r, apiErr)
		return
	}

	var artifact models.Artifact
	switch req.Format {
	case FormatPPTX:
		artifact = report.Deck
	case FormatHTML:
		artifact = report.Page
	default:
		artifact, err = bundle(report.Artifacts())
		if err != nil {
			s.metrics.observe(OutcomeGenerationError, start)
			writeError(w, r, newError(http.StatusInternalServerError, CodeGenerationFailed, "Report generation failed", err.Error()))
			return
		}
	}

	s.metrics.observe(OutcomeSuccess, start)
	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	w.Header().Set(RunIDHeader, report.RunID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Data)
}

// formFile returns the uploaded bytes for key, or nil if nothing was sent.
func formFile(form *multipart.Form, key string) ([]byte, error) {
	headers := form.File[key]
	if len(headers) == 0 {
		return nil, nil
	}
	f, err := headers[0].Open()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// bundle zips several artifacts into one download.
func bundle(artifacts []models.Artifact) (models.Artifact, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, a := range artifacts {
		fw, err := zw.Create(a.Filename)
		if err != nil {
			return models.Artifact{}, err
		}
		if _, err := fw.Write(a.Data); err != nil {
			return models.Artifact{}, err
		}
	}
	if err := zw.Close(); err != nil {
		return models.Artifact{}, err
	}
	return models.Artifact{Filename: ZipFilename, ContentType: "application/zip", Data: buf.Bytes()}, nil
}

func describeRequestError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s, got %q", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s must be a number, got %q", fe.Field(), fe.Value()))
		}
	}
	return strings.Join(msgs, "; ")
}
