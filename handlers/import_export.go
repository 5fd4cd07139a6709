package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jcconstruction/tracker/config"
	"github.com/jcconstruction/tracker/models"
	"github.com/jcconstruction/tracker/pkg/sheetstore"
)

// Legacy worksheet names from the spreadsheet this system replaced.
const (
	sheetJobs         = "jobs"
	sheetJobTime      = "job_time"
	sheetMaterials    = "materials"
	sheetReceipts     = "receipts"
	sheetUsers        = "users"
	sheetDownPayments = "down_payments"
	sheetJobFiles     = "job_files"
)

type importCounts struct {
	Jobs         int `json:"jobs"`
	TimeEntries  int `json:"timeEntries"`
	Materials    int `json:"materials"`
	Receipts     int `json:"receipts"`
	DownPayments int `json:"downPayments"`
	JobFiles     int `json:"jobFiles"`
	Users        int `json:"users"`
	Skipped      int `json:"skipped"`
}

// ImportWorkbook ingests the legacy spreadsheet export in one
// transaction. Legacy hex IDs are remapped to UUIDs; child rows whose
// job reference cannot be resolved are skipped, not fatal. Imported
// user accounts get no usable password and need an admin reset.
func ImportWorkbook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "workbook file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	wb, err := sheetstore.OpenReader(file)
	if err != nil {
		http.Error(w, "could not read workbook: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer wb.Close()

	var counts importCounts
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		jobIDs, err := importJobs(tx, wb, &counts)
		if err != nil {
			return err
		}
		if err := importTimeEntries(tx, wb, jobIDs, &counts); err != nil {
			return err
		}
		if err := importMaterials(tx, wb, jobIDs, &counts); err != nil {
			return err
		}
		if err := importReceipts(tx, wb, jobIDs, &counts); err != nil {
			return err
		}
		if err := importDownPayments(tx, wb, jobIDs, &counts); err != nil {
			return err
		}
		if err := importJobFiles(tx, wb, jobIDs, &counts); err != nil {
			return err
		}
		return importUsers(tx, wb, &counts)
	})
	if err != nil {
		http.Error(w, "import failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(counts)
}

func importJobs(tx *gorm.DB, wb *sheetstore.Workbook, counts *importCounts) (map[string]uuid.UUID, error) {
	rows, err := wb.LoadTable(sheetJobs)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]uuid.UUID, len(rows))
	for _, row := range rows {
		name := cellString(row["Job Name"])
		client := cellString(row["Client"])
		if name == "" || client == "" {
			counts.Skipped++
			continue
		}
		status := cellString(row["Status"])
		if !models.ValidJobStatus(status) {
			status = models.JobStatusPlanning
		}
		job := models.Job{
			ID:                    legacyUUID(row["UniqueID"]),
			Name:                  name,
			Client:                client,
			Status:                status,
			StartDate:             cellDatePtr(row["Start Date"]),
			EndDate:               cellDatePtr(row["End Date"]),
			Description:           cellString(row["Description"]),
			EstimatedHours:        cellFloat(row["Estimated Hours"]),
			EstimatedMaterialCost: cellFloat(row["Estimated Materials Cost"]),
		}
		if err := tx.Create(&job).Error; err != nil {
			return nil, err
		}
		if legacy := cellString(row["UniqueID"]); legacy != "" {
			ids[legacy] = job.ID
		}
		counts.Jobs++
	}
	return ids, nil
}

func importTimeEntries(tx *gorm.DB, wb *sheetstore.Workbook, jobIDs map[string]uuid.UUID, counts *importCounts) error {
	rows, err := wb.LoadTable(sheetJobTime)
	if err != nil {
		return err
	}
	for _, row := range rows {
		jobID, ok := jobIDs[cellString(row["JobUniqueID"])]
		if !ok {
			counts.Skipped++
			continue
		}
		hours := cellFloat(row["Time Duration (Hours)"])
		date := cellDate(row["Date"])
		if hours <= 0 || date.IsZero() {
			counts.Skipped++
			continue
		}
		entry := models.TimeEntry{
			ID:            legacyUUID(row["UniqueID"]),
			JobID:         jobID,
			Contractor:    cellString(row["Contractor"]),
			Date:          models.JSONTime(date),
			StartTime:     cellString(row["Start Time"]),
			EndTime:       cellString(row["End Time"]),
			DurationHours: hours,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		counts.TimeEntries++
	}
	return nil
}

func importMaterials(tx *gorm.DB, wb *sheetstore.Workbook, jobIDs map[string]uuid.UUID, counts *importCounts) error {
	rows, err := wb.LoadTable(sheetMaterials)
	if err != nil {
		return err
	}
	for _, row := range rows {
		jobID, ok := jobIDs[cellString(row["JobUniqueID"])]
		if !ok {
			counts.Skipped++
			continue
		}
		material := cellString(row["Material"])
		if material == "" {
			counts.Skipped++
			continue
		}
		usage := models.MaterialUsage{
			ID:         legacyUUID(row["UniqueID"]),
			JobID:      jobID,
			Contractor: cellString(row["Contractor"]),
			Material:   material,
			DateUsed:   models.JSONTime(cellDate(row["Date"])),
			Amount:     cellFloat(row["Amount"]),
			Payor:      cellString(row["Payor"]),
		}
		if err := tx.Create(&usage).Error; err != nil {
			return err
		}
		counts.Materials++
	}
	return nil
}

func importReceipts(tx *gorm.DB, wb *sheetstore.Workbook, jobIDs map[string]uuid.UUID, counts *importCounts) error {
	rows, err := wb.LoadTable(sheetReceipts)
	if err != nil {
		return err
	}
	for _, row := range rows {
		jobID, ok := jobIDs[cellString(row["JobUniqueID"])]
		if !ok {
			counts.Skipped++
			continue
		}
		receipt := models.Receipt{
			ID:         legacyUUID(row["UniqueID"]),
			JobID:      jobID,
			Contractor: cellString(row["Contractor"]),
			Payor:      cellString(row["Payor"]),
			Amount:     cellFloat(row["Amount"]),
			FileName:   cellString(row["File Name"]),
			FileLink:   cellString(row["File Path"]),
			UploadedAt: models.JSONTime(cellDate(row["Upload Date"])),
		}
		if err := tx.Create(&receipt).Error; err != nil {
			return err
		}
		counts.Receipts++
	}
	return nil
}

func importDownPayments(tx *gorm.DB, wb *sheetstore.Workbook, jobIDs map[string]uuid.UUID, counts *importCounts) error {
	rows, err := wb.LoadTable(sheetDownPayments)
	if err != nil {
		return err
	}
	for _, row := range rows {
		jobID, ok := jobIDs[cellString(row["JobUniqueID"])]
		if !ok {
			counts.Skipped++
			continue
		}
		amount := cellFloat(row["Amount"])
		if amount <= 0 {
			counts.Skipped++
			continue
		}
		method := cellString(row["Payment Method"])
		if !models.ValidPaymentMethod(method) {
			method = models.PaymentMethodOther
		}
		payment := models.DownPayment{
			ID:           legacyUUID(row["UniqueID"]),
			JobID:        jobID,
			DateReceived: models.JSONTime(cellDate(row["Date Received"])),
			Amount:       amount,
			Method:       method,
			Notes:        cellString(row["Notes"]),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		counts.DownPayments++
	}
	return nil
}

func importJobFiles(tx *gorm.DB, wb *sheetstore.Workbook, jobIDs map[string]uuid.UUID, counts *importCounts) error {
	rows, err := wb.LoadTable(sheetJobFiles)
	if err != nil {
		return err
	}
	for _, row := range rows {
		jobID, ok := jobIDs[cellString(row["JobUniqueID"])]
		if !ok {
			counts.Skipped++
			continue
		}
		category := cellString(row["Category"])
		if !models.ValidFileCategory(category) {
			category = models.FileCategoryOther
		}
		jf := models.JobFile{
			ID:         legacyUUID(row["UniqueID"]),
			JobID:      jobID,
			FileName:   cellString(row["File Name"]),
			FileLink:   cellString(row["File Path"]),
			Category:   category,
			UploadedAt: models.JSONTime(cellDate(row["Upload Date"])),
			UploadedBy: cellString(row["Uploaded By"]),
		}
		if err := tx.Create(&jf).Error; err != nil {
			return err
		}
		counts.JobFiles++
	}
	return nil
}

// importUsers carries accounts over without passwords: the legacy hash
// scheme is incompatible, so each imported user needs an admin reset
// before first login. Existing usernames (the bootstrap admin included)
// are left untouched.
func importUsers(tx *gorm.DB, wb *sheetstore.Workbook, counts *importCounts) error {
	rows, err := wb.LoadTable(sheetUsers)
	if err != nil {
		return err
	}
	for _, row := range rows {
		username := strings.ToLower(cellString(row["Username"]))
		role := cellString(row["Role"])
		if username == "" || !models.ValidUserRole(role) {
			counts.Skipped++
			continue
		}
		var existing int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			counts.Skipped++
			continue
		}
		u := models.User{
			ID:           legacyUUID(row["UserUniqueID"]),
			Username:     username,
			PasswordHash: "",
			Role:         role,
			FirstName:    cellString(row["FirstName"]),
			Surname:      cellString(row["Surname"]),
			ClientName:   cellString(row["AssociatedClientName"]),
		}
		if err := tx.Create(&u).Error; err != nil {
			return err
		}
		counts.Users++
	}
	return nil
}

// ExportWorkbook writes all seven tables back out in the legacy sheet
// and column layout.
func ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	wb := sheetstore.New()

	var jobs []models.Job
	if err := config.DB.Find(&jobs).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	jobRows := make([]map[string]any, len(jobs))
	for i, j := range jobs {
		jobRows[i] = map[string]any{
			"Job Name":                 j.Name,
			"Client":                   j.Client,
			"Status":                   j.Status,
			"Start Date":               datePtrCell(j.StartDate),
			"End Date":                 datePtrCell(j.EndDate),
			"Description":              j.Description,
			"Estimated Hours":          j.EstimatedHours,
			"Estimated Materials Cost": j.EstimatedMaterialCost,
			"UniqueID":                 legacyHex(j.ID),
		}
	}
	if err := wb.ReplaceTable(sheetJobs, []string{
		"Job Name", "Client", "Status", "Start Date", "End Date",
		"Description", "Estimated Hours", "Estimated Materials Cost", "UniqueID",
	}, jobRows); err != nil {
		http.Error(w, "export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var entries []models.TimeEntry
	if err := config.DB.Find(&entries).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	entryRows := make([]map[string]any, len(entries))
	for i, e := range entries {
		entryRows[i] = map[string]any{
			"JobUniqueID":           legacyHex(e.JobID),
			"Contractor":            e.Contractor,
			"Date":                  e.Date.Time(),
			"Start Time":            e.StartTime,
			"End Time":              e.EndTime,
			"Time Duration (Hours)": e.DurationHours,
			"UniqueID":              legacyHex(e.ID),
		}
	}
	if err := wb.ReplaceTable(sheetJobTime, []string{
		"JobUniqueID", "Contractor", "Date", "Start Time", "End Time",
		"Time Duration (Hours)", "UniqueID",
	}, entryRows); err != nil {
		http.Error(w, "export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var materials []models.MaterialUsage
	if err := config.DB.Find(&materials).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	materialRows := make([]map[string]any, len(materials))
	for i, m := range materials {
		materialRows[i] = map[string]any{
			"JobUniqueID": legacyHex(m.JobID),
			"Contractor":  m.Contractor,
			"Material":    m.Material,
			"Date":        m.DateUsed.Time(),
			"Amount":      m.Amount,
			"Payor":       m.Payor,
			"UniqueID":    legacyHex(m.ID),
		}
	}
	if err := wb.ReplaceTable(sheetMaterials, []string{
		"JobUniqueID", "Contractor", "Material", "Date", "Amount", "Payor", "UniqueID",
	}, materialRows); err != nil {
		http.Error(w, "export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var receipts []models.Receipt
	if err := config.DB.Find(&receipts).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	receiptRows := make([]map[string]any, len(receipts))
	for i, rc := range receipts {
		receiptRows[i] = map[string]any{
			"JobUniqueID": legacyHex(rc.JobID),
			"Contractor":  rc.Contractor,
			"Payor":       rc.Payor,
			"Amount":      rc.Amount,
			"File Name":   rc.FileName,
			"File Path":   rc.FileLink,
			"Upload Date": rc.UploadedAt.Time(),
			"UniqueID":    legacyHex(rc.ID),
		}
	}
	if err := wb.ReplaceTable(sheetReceipts, []string{
		"JobUniqueID", "Contractor", "Payor", "Amount", "File Name",
		"File Path", "Upload Date", "UniqueID",
	}, receiptRows); err != nil {
		http.Error(w, "export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var payments []models.DownPayment
	if err := config.DB.Find(&payments).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	paymentRows := make([]map[string]any, len(payments))
	for i, d := range payments {
		paymentRows[i] = map[string]any{
			"JobUniqueID":    legacyHex(d.JobID),
			"Date Received":  d.DateReceived.Time(),
			"Amount":         d.Amount,
			"Payment Method": d.Method,
			"Notes":          d.Notes,
			"UniqueID":       legacyHex(d.ID),
		}
	}
	if err := wb.ReplaceTable(sheetDownPayments, []string{
		"JobUniqueID", "Date Received", "Amount", "Payment Method", "Notes", "UniqueID",
	}, paymentRows); err != nil {
		http.Error(w, "export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var files []models.JobFile
	if err := config.DB.Find(&files).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	fileRows := make([]map[string]any, len(files))
	for i, f := range files {
		fileRows[i] = map[string]any{
			"JobUniqueID": legacyHex(f.JobID),
			"File Name":   f.FileName,
			"File Path":   f.FileLink,
			"Category":    f.Category,
			"Upload Date": f.UploadedAt.Time(),
			"Uploaded By": f.UploadedBy,
			"UniqueID":    legacyHex(f.ID),
		}
	}
	if err := wb.ReplaceTable(sheetJobFiles, []string{
		"JobUniqueID", "File Name", "File Path", "Category", "Upload Date",
		"Uploaded By", "UniqueID",
	}, fileRows); err != nil {
		http.Error(w, "export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var users []models.User
	if err := config.DB.Find(&users).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	userRows := make([]map[string]any, len(users))
	for i, u := range users {
		userRows[i] = map[string]any{
			"Username":             u.Username,
			"Role":                 u.Role,
			"FirstName":            u.FirstName,
			"Surname":              u.Surname,
			"AssociatedClientName": u.ClientName,
			"UserUniqueID":         legacyHex(u.ID),
		}
	}
	if err := wb.ReplaceTable(sheetUsers, []string{
		"Username", "Role", "FirstName", "Surname", "AssociatedClientName", "UserUniqueID",
	}, userRows); err != nil {
		http.Error(w, "export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	data, err := wb.Bytes()
	if err != nil {
		http.Error(w, "export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	filename := fmt.Sprintf("workbook_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Cell converters. LoadTable already coerced by column name; these just
// narrow the any values.

func cellString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func cellFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}

func cellDate(v any) time.Time {
	t, _ := v.(time.Time)
	return t
}

func cellDatePtr(v any) *models.JSONTime {
	t, ok := v.(time.Time)
	if !ok || t.IsZero() {
		return nil
	}
	jt := models.JSONTime(t)
	return &jt
}

func datePtrCell(jt *models.JSONTime) any {
	if jt == nil {
		return ""
	}
	return jt.Time()
}

// legacyUUID turns the spreadsheet's dashless hex IDs into UUIDs,
// minting a fresh one when the cell doesn't parse.
func legacyUUID(v any) uuid.UUID {
	if id, err := uuid.Parse(cellString(v)); err == nil {
		return id
	}
	return uuid.New()
}

func legacyHex(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")
}
