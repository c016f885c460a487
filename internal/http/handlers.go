package http

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"aidat/internal/auth"
	"aidat/internal/core"
	"aidat/internal/export"
	exportpdf "aidat/internal/export/pdf"
	exportxlsx "aidat/internal/export/xlsx"
	"aidat/internal/services"
)

type (
	loginPage struct {
		Error string
	}

	tablePage struct {
		Role    auth.Role
		Caps    auth.Capabilities
		Summary core.Summary
		Month   string // YYYY-MM for the month picker
	}

	confirmPage struct {
		Token  string
		Prompt string
	}
)

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("Template render failed", "template", name, "error", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, ok := s.sessions.get(r)
	if !ok {
		s.render(w, http.StatusOK, "login.html", loginPage{})
		return
	}
	role, authed := sess.gate.Role()
	if !authed {
		s.render(w, http.StatusOK, "login.html", loginPage{})
		return
	}

	now := time.Now()
	s.render(w, http.StatusOK, "table.html", tablePage{
		Role:    role,
		Caps:    sess.gate.Capabilities(),
		Summary: s.currentSummary(),
		Month:   now.Format("2006-01"),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !postOnly(w, r) {
		return
	}

	username := strings.TrimSpace(r.Form.Get("username"))
	password := strings.TrimSpace(r.Form.Get("password"))

	sess, ok := s.sessions.get(r)
	if !ok {
		sess = s.sessions.create(w)
	}

	role, err := sess.gate.Authenticate(username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			slog.InfoContext(r.Context(), "Login rejected", "username", username)
			s.render(w, http.StatusUnauthorized, "login.html", loginPage{
				Error: "Hatalı kullanıcı adı veya şifre!",
			})
			return
		}
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	slog.InfoContext(r.Context(), "Login accepted", "username", username, "role", string(role))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAddResident(w http.ResponseWriter, r *http.Request) {
	if !postOnly(w, r) {
		return
	}
	if !s.allow(w, r, func(c auth.Capabilities) bool { return c.CanAdd }) {
		return
	}

	in := services.ResidentInput{
		FlatNo:        strings.TrimSpace(r.Form.Get("flatNo")),
		FullName:      strings.TrimSpace(r.Form.Get("fullName")),
		MonthlyFee:    core.ParseAmount(r.Form.Get("monthlyFee")),
		PaidThisMonth: core.ParseAmount(r.Form.Get("paidThisMonth")),
		Note:          strings.TrimSpace(r.Form.Get("note")),
	}
	resident := s.ledger.Add(r.Context(), in)

	slog.InfoContext(r.Context(), "Resident added",
		"resident_id", resident.ID,
		"flat_no", resident.FlatNo)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleUpdateResident(w http.ResponseWriter, r *http.Request) {
	if !postOnly(w, r) {
		return
	}
	if !s.allow(w, r, func(c auth.Capabilities) bool { return c.CanEdit }) {
		return
	}

	id := r.Form.Get("id")
	flatNo := strings.TrimSpace(r.Form.Get("flatNo"))
	fullName := strings.TrimSpace(r.Form.Get("fullName"))
	fee := core.ParseAmount(r.Form.Get("monthlyFee"))
	paid := core.ParseAmount(r.Form.Get("paidThisMonth"))
	note := strings.TrimSpace(r.Form.Get("note"))

	s.ledger.Update(r.Context(), id, services.ResidentPatch{
		FlatNo:        &flatNo,
		FullName:      &fullName,
		MonthlyFee:    &fee,
		PaidThisMonth: &paid,
		Note:          &note,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDeleteResident(w http.ResponseWriter, r *http.Request) {
	if !postOnly(w, r) {
		return
	}
	if !s.allow(w, r, func(c auth.Capabilities) bool { return c.CanDelete }) {
		return
	}

	pending := s.ledger.RequestRemoval(r.Form.Get("id"))
	prompt := "Bu kaydı silmek istiyor musunuz?"
	if pending.Label != "" {
		prompt = pending.Label + " kaydını silmek istiyor musunuz?"
	}
	s.render(w, http.StatusOK, "confirm.html", confirmPage{
		Token:  pending.Token,
		Prompt: prompt,
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if !postOnly(w, r) {
		return
	}
	if !s.allow(w, r, func(c auth.Capabilities) bool { return c.CanClear }) {
		return
	}

	pending := s.ledger.RequestClear()
	s.render(w, http.StatusOK, "confirm.html", confirmPage{
		Token:  pending.Token,
		Prompt: "Tüm veriler silinecek! Emin misiniz?",
	})
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	if !postOnly(w, r) {
		return
	}
	if !s.allow(w, r, func(c auth.Capabilities) bool { return c.CanDelete || c.CanClear }) {
		return
	}

	if !s.ledger.Confirm(r.Context(), r.Form.Get("token")) {
		slog.DebugContext(r.Context(), "Stale confirmation token ignored")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if !postOnly(w, r) {
		return
	}
	if !s.allow(w, r, func(c auth.Capabilities) bool { return c.CanDelete || c.CanClear }) {
		return
	}

	s.ledger.Cancel(r.Form.Get("token"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.exportReport(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := exportpdf.Render(&buf, rep); err != nil {
		slog.ErrorContext(r.Context(), "PDF export failed", "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	sendDownload(w, buf, "application/pdf", export.PDFFileName(rep.MonthLabel))
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.exportReport(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := exportxlsx.Render(&buf, rep); err != nil {
		slog.ErrorContext(r.Context(), "XLSX export failed", "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	sendDownload(w, buf,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		export.XLSXFileName(rep.MonthLabel))
}

// exportReport gates, picks the month, and builds the report shared by
// both download handlers. Exports are reads: viewers may use them too.
func (s *Server) exportReport(w http.ResponseWriter, r *http.Request) (export.Report, bool) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return export.Report{}, false
	}
	sess, ok := s.sessions.get(r)
	if !ok {
		http.Error(w, "Önce giriş yapın.", http.StatusUnauthorized)
		return export.Report{}, false
	}
	if _, authed := sess.gate.Role(); !authed {
		http.Error(w, "Önce giriş yapın.", http.StatusUnauthorized)
		return export.Report{}, false
	}

	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if y, m, ok := core.ParseMonthInput(r.URL.Query().Get("month")); ok {
		year, month = y, m
	}

	rep, err := export.Build(s.ledger.List(), core.MonthLabel(year, month))
	if err != nil {
		if errors.Is(err, export.ErrEmptyLedger) {
			http.Error(w, "Önce en az bir kullanıcı ekleyin.", http.StatusUnprocessableEntity)
			return export.Report{}, false
		}
		slog.ErrorContext(r.Context(), "Report build failed", "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return export.Report{}, false
	}
	return rep, true
}

func sendDownload(w http.ResponseWriter, buf bytes.Buffer, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

// postOnly enforces the method and parses the form.
func postOnly(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		return false
	}
	return true
}

// allow checks that the request's session role grants the capability.
// The capability set is queried once and decides the whole request;
// viewers get a flat 403 on every mutation route.
func (s *Server) allow(w http.ResponseWriter, r *http.Request, need func(auth.Capabilities) bool) bool {
	sess, ok := s.sessions.get(r)
	if !ok {
		http.Error(w, "Önce giriş yapın.", http.StatusUnauthorized)
		return false
	}
	if !need(sess.gate.Capabilities()) {
		slog.WarnContext(r.Context(), "Mutation denied for read-only session", "url", r.URL.Path)
		http.Error(w, "Bu işlem için yetkiniz yok.", http.StatusForbidden)
		return false
	}
	return true
}
