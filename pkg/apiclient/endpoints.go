package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cureconnect/cureconnect/internal/domain/appointment"
	"github.com/cureconnect/cureconnect/internal/domain/identity"
	"github.com/cureconnect/cureconnect/internal/domain/medicalhistory"
	"github.com/cureconnect/cureconnect/internal/domain/prescription"
	"github.com/cureconnect/cureconnect/internal/domain/symptom"
	"github.com/cureconnect/cureconnect/internal/domain/ticket"
)

// -- Session --

type sessionResponse struct {
	User  *identity.User `json:"user"`
	Token string         `json:"token"`
}

func (c *Client) Register(ctx context.Context, in identity.RegisterInput) (*identity.User, error) {
	var out sessionResponse
	if err := c.do(ctx, http.MethodPost, "/register", nil, in, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return out.User, nil
}

func (c *Client) Login(ctx context.Context, contact, password string) (*identity.User, error) {
	var out sessionResponse
	err := c.do(ctx, http.MethodPost, "/login", nil, identity.LoginInput{Contact: contact, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return out.User, nil
}

// Logout revokes the session server-side and forgets the token.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/logout", nil, nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *Client) Me(ctx context.Context) (*identity.User, error) {
	var out struct {
		User *identity.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) Doctors(ctx context.Context) ([]*identity.User, error) {
	var out struct {
		Doctors []*identity.User `json:"doctors"`
	}
	if err := c.do(ctx, http.MethodGet, "/doctors", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Doctors, nil
}

// NotifyDoctorJoined tells the patient that the calling doctor is waiting in
// the consultation room.
func (c *Client) NotifyDoctorJoined(ctx context.Context, patientID, roomID string) (*identity.JoinNotice, error) {
	body := map[string]string{"patientId": patientID, "roomId": roomID}
	var out struct {
		Data *identity.JoinNotice `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/notify-doctor-joined", nil, body, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// -- Appointments --

type appointmentResponse struct {
	Appointment *appointment.Appointment `json:"appointment"`
}

func (c *Client) BookAppointment(ctx context.Context, in appointment.CreateInput) (*appointment.Appointment, error) {
	var out appointmentResponse
	if err := c.do(ctx, http.MethodPost, "/appointment/new", nil, in, &out); err != nil {
		return nil, err
	}
	return out.Appointment, nil
}

// MyAppointments lists the caller's appointments. when is all, upcoming or
// past; empty values are omitted.
func (c *Client) MyAppointments(ctx context.Context, when, status string) ([]*appointment.Appointment, error) {
	q := url.Values{}
	if when != "" {
		q.Set("filter", when)
	}
	if status != "" {
		q.Set("status", status)
	}
	var out struct {
		Appointments []*appointment.Appointment `json:"appointments"`
	}
	if err := c.do(ctx, http.MethodGet, "/appointment/my", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Appointments, nil
}

func (c *Client) AvailableSlots(ctx context.Context, doctorID, day string) (*appointment.Slots, error) {
	var out appointment.Slots
	path := "/appointment/slots/" + url.PathEscape(doctorID) + "/" + url.PathEscape(day)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Appointment(ctx context.Context, id string) (*appointment.Appointment, error) {
	var out appointmentResponse
	if err := c.do(ctx, http.MethodGet, "/appointment/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Appointment, nil
}

func (c *Client) CancelAppointment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/appointment/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) CompleteAppointment(ctx context.Context, id string) (*appointment.Appointment, error) {
	var out appointmentResponse
	if err := c.do(ctx, http.MethodPut, "/appointment/"+url.PathEscape(id)+"/complete", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Appointment, nil
}

func (c *Client) ScheduleFollowUp(ctx context.Context, in appointment.FollowUpInput) (*appointment.Appointment, error) {
	var out appointmentResponse
	if err := c.do(ctx, http.MethodPost, "/appointment/followup", nil, in, &out); err != nil {
		return nil, err
	}
	return out.Appointment, nil
}

// -- Medical history --

type historyResponse struct {
	MedicalHistory []*medicalhistory.Record `json:"medicalHistory"`
}

func (c *Client) AddMedicalHistory(ctx context.Context, in medicalhistory.AddInput) ([]*medicalhistory.Record, error) {
	var out historyResponse
	if err := c.do(ctx, http.MethodPost, "/medical-history", nil, in, &out); err != nil {
		return nil, err
	}
	return out.MedicalHistory, nil
}

func (c *Client) MedicalHistory(ctx context.Context, userID string) ([]*medicalhistory.Record, error) {
	var out historyResponse
	if err := c.do(ctx, http.MethodGet, "/medical-history/"+url.PathEscape(userID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.MedicalHistory, nil
}

func (c *Client) PatientData(ctx context.Context, patientID string) (*medicalhistory.PatientData, error) {
	var out struct {
		Data *medicalhistory.PatientData `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/patient/"+url.PathEscape(patientID)+"/complete-data", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// -- Prescriptions --

func (c *Client) Prescriptions(ctx context.Context) ([]*prescription.Prescription, error) {
	var out struct {
		Prescriptions []*prescription.Prescription `json:"prescriptions"`
	}
	if err := c.do(ctx, http.MethodGet, "/prescriptions", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Prescriptions, nil
}

type prescriptionResponse struct {
	Prescription *prescription.Prescription `json:"prescription"`
}

func (c *Client) CreatePrescription(ctx context.Context, in prescription.CreateInput) (*prescription.Prescription, error) {
	var out prescriptionResponse
	if err := c.do(ctx, http.MethodPost, "/prescription/new", nil, in, &out); err != nil {
		return nil, err
	}
	return out.Prescription, nil
}

func (c *Client) Prescription(ctx context.Context, id string) (*prescription.Prescription, error) {
	var out prescriptionResponse
	if err := c.do(ctx, http.MethodGet, "/prescription/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Prescription, nil
}

// -- Tickets --

// TicketPage is one page of GET /ticket/my-tickets.
type TicketPage struct {
	Tickets      []*ticket.Ticket `json:"tickets"`
	TotalTickets int              `json:"totalTickets"`
	CurrentPage  int              `json:"currentPage"`
	TotalPages   int              `json:"totalPages"`
}

func (c *Client) CreateTicket(ctx context.Context, in ticket.CreateInput) (*ticket.Ticket, error) {
	var out struct {
		Ticket *ticket.Ticket `json:"ticket"`
	}
	if err := c.do(ctx, http.MethodPost, "/ticket/create", nil, in, &out); err != nil {
		return nil, err
	}
	return out.Ticket, nil
}

// MyTickets pages through the caller's tickets. Zero page or limit leaves the
// server default.
func (c *Client) MyTickets(ctx context.Context, status string, page, limit int) (*TicketPage, error) {
	q := pageQuery(page, limit)
	if status != "" {
		q.Set("status", status)
	}
	var out TicketPage
	if err := c.do(ctx, http.MethodGet, "/ticket/my-tickets", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TicketDetails(ctx context.Context, id string) (*ticket.Ticket, error) {
	var out struct {
		Ticket *ticket.Ticket `json:"ticket"`
	}
	if err := c.do(ctx, http.MethodGet, "/ticket/details/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Ticket, nil
}

// -- Symptoms --

func (c *Client) ExtractKeywords(ctx context.Context, text, language string) (*symptom.Result, error) {
	body := map[string]string{"text": text, "language": language}
	var out symptom.Result
	if err := c.do(ctx, http.MethodPost, "/symptoms/keywords", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Languages(ctx context.Context) ([]symptom.Language, error) {
	var out struct {
		Languages []symptom.Language `json:"languages"`
	}
	if err := c.do(ctx, http.MethodGet, "/symptoms/languages", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Languages, nil
}
