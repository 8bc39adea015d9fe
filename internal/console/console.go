// Package console is a line-oriented front end for the clinic actions.
//
// Handle runs on the UI goroutine. Every action is submitted to the
// dispatcher, and the session and output are only touched by the
// continuations, which the same goroutine runs while draining outcomes.
package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"clinicAppointments/internal/dispatch"
	"clinicAppointments/internal/service"
	"clinicAppointments/models"
)

// ArgSeparator splits command arguments so that names may contain spaces.
const ArgSeparator = "|"

const helpText = `commands (arguments separated by "|"):
  register login|password|full name|phone
  login login|password
  logout
  doctors [specialization]
  specs
  add-doctor login|password|full name|specialization        (admin)
  edit-doctor id|full name|specialization[|login|password]  (admin)
  delete-doctor id                                          (admin)
  book doctor id|YYYY-MM-DD HH:MM                           (patient)
  appointments                                              (patient, doctor)
  doctor-appointments doctor id
  update-appointment id|status|complaint|condition|conclusion (doctor)
  help
  quit
`

// Console interprets commands for one user session.
type Console struct {
	svc     *service.Service
	tasks   *dispatch.Dispatcher
	out     io.Writer
	session *models.AuthPayload
	pending int
}

// New creates a console that prints to out.
func New(svc *service.Service, tasks *dispatch.Dispatcher, out io.Writer) *Console {
	return &Console{svc: svc, tasks: tasks, out: out}
}

// Session returns the logged-in identity, or nil.
func (c *Console) Session() *models.AuthPayload {
	return c.session
}

// Pending is the number of submitted actions whose outcome has not run yet.
func (c *Console) Pending() int {
	return c.pending
}

// Handle interprets one input line. It returns false once the user quits.
func (c *Console) Handle(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	cmd, rest, _ := strings.Cut(line, " ")
	args := splitArgs(rest)

	switch strings.ToLower(cmd) {
	case "help":
		c.print(helpText)
	case "quit", "exit":
		return false
	case "register":
		c.register(args)
	case "login":
		c.login(args)
	case "logout":
		c.logout()
	case "doctors":
		c.doctors(strings.TrimSpace(rest))
	case "specs":
		c.specs()
	case "add-doctor":
		c.addDoctor(args)
	case "edit-doctor":
		c.editDoctor(args)
	case "delete-doctor":
		c.deleteDoctor(args)
	case "book":
		c.book(args)
	case "appointments":
		c.appointments()
	case "doctor-appointments":
		c.doctorAppointments(args)
	case "update-appointment":
		c.updateAppointment(args)
	default:
		c.printf("unknown command %q, type help\n", cmd)
	}
	return true
}

func splitArgs(rest string) []string {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil
	}
	parts := strings.Split(rest, ArgSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// arg returns args[i] or "" when absent.
func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func (c *Console) print(s string) {
	_, _ = io.WriteString(c.out, s)
}

func (c *Console) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(c.out, format, a...)
}

func (c *Console) fail(msg string) {
	c.print(msg + "\n")
}

// submit queues action and tracks it until its continuation has run.
func submit[T any](c *Console, action func(ctx context.Context) (T, error), onSuccess func(T)) {
	c.pending++
	_, err := dispatch.Submit(c.tasks, action,
		func(v T) {
			c.pending--
			onSuccess(v)
		},
		func(msg string) {
			c.pending--
			c.fail(msg)
		})
	if err != nil {
		c.pending--
		c.fail("error: " + err.Error())
	}
}

// require reports whether the session has one of roles, printing why not.
func (c *Console) require(roles ...models.Role) bool {
	if c.session == nil {
		c.fail("error: log in first")
		return false
	}
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if c.session.Role == r {
			return true
		}
	}
	c.fail("error: not allowed for role " + string(c.session.Role))
	return false
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return id, err == nil && id > 0
}

func (c *Console) register(args []string) {
	in := service.RegisterPatientInput{Login: arg(args, 0), Password: arg(args, 1), FIO: arg(args, 2), Phone: arg(args, 3)}
	submit(c, func(ctx context.Context) (*models.AuthPayload, error) {
		return c.svc.RegisterPatient(ctx, in)
	}, func(p *models.AuthPayload) {
		c.session = p
		c.printf("registered and logged in as %s\n", p.Login)
	})
}

func (c *Console) login(args []string) {
	login, pw := arg(args, 0), arg(args, 1)
	submit(c, func(ctx context.Context) (*models.AuthPayload, error) {
		return c.svc.LoginUser(ctx, login, pw)
	}, func(p *models.AuthPayload) {
		c.session = p
		c.printf("logged in as %s (%s)\n", p.Login, p.Role)
	})
}

func (c *Console) logout() {
	if c.session == nil {
		c.print("not logged in\n")
		return
	}
	c.session = nil
	c.print("logged out\n")
}

func (c *Console) doctors(spec string) {
	if !c.require() {
		return
	}
	submit(c, func(ctx context.Context) ([]models.DoctorView, error) {
		return c.svc.DoctorsBySpecialization(ctx, spec)
	}, c.printDoctors)
}

func (c *Console) printDoctors(list []models.DoctorView) {
	if len(list) == 0 {
		c.print("no doctors\n")
		return
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSPECIALIZATION")
	for _, d := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\n", d.ID, d.FIO, d.Specialization)
	}
	_ = w.Flush()
}

func (c *Console) specs() {
	if !c.require() {
		return
	}
	submit(c, c.svc.Specializations, func(specs []string) {
		if len(specs) == 0 {
			c.print("no specializations\n")
			return
		}
		c.print(strings.Join(specs, "\n") + "\n")
	})
}

func (c *Console) addDoctor(args []string) {
	if !c.require(models.RoleAdmin) {
		return
	}
	in := service.CreateDoctorInput{Login: arg(args, 0), Password: arg(args, 1), FIO: arg(args, 2), Specialization: arg(args, 3)}
	submit(c, func(ctx context.Context) (*models.DoctorView, error) {
		return c.svc.CreateDoctor(ctx, in)
	}, func(d *models.DoctorView) {
		c.printf("doctor %d created\n", d.ID)
	})
}

func (c *Console) editDoctor(args []string) {
	if !c.require(models.RoleAdmin) {
		return
	}
	id, ok := parseID(arg(args, 0))
	if !ok {
		c.fail("error: " + service.ErrDoctorNotFound.Error())
		return
	}
	in := service.UpdateDoctorInput{ID: id, FIO: arg(args, 1), Specialization: arg(args, 2), Login: arg(args, 3), Password: arg(args, 4)}
	submit(c, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.svc.UpdateDoctor(ctx, in)
	}, func(struct{}) {
		c.printf("doctor %d updated\n", id)
	})
}

func (c *Console) deleteDoctor(args []string) {
	if !c.require(models.RoleAdmin) {
		return
	}
	id, ok := parseID(arg(args, 0))
	if !ok {
		c.fail("error: " + service.ErrDoctorNotFound.Error())
		return
	}
	submit(c, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.svc.DeleteDoctor(ctx, id)
	}, func(struct{}) {
		c.printf("doctor %d deleted\n", id)
	})
}

func (c *Console) book(args []string) {
	if !c.require(models.RolePatient) {
		return
	}
	doctorID, ok := parseID(arg(args, 0))
	if !ok {
		c.fail("error: " + service.ErrDoctorNotFound.Error())
		return
	}
	at, err := service.ParseDateTime(arg(args, 1))
	if err != nil {
		c.fail("error: " + err.Error())
		return
	}
	userID := c.session.UserID
	submit(c, func(ctx context.Context) (*models.Appointment, error) {
		return c.svc.CreateAppointment(ctx, userID, doctorID, at)
	}, func(a *models.Appointment) {
		c.printf("appointment %d booked for %s\n", a.ID, service.FormatDateTime(a.ScheduledAt))
	})
}

func (c *Console) appointments() {
	if !c.require(models.RolePatient, models.RoleDoctor) {
		return
	}
	userID := c.session.UserID
	list := c.svc.GetPatientAppointments
	if c.session.Role == models.RoleDoctor {
		list = c.svc.GetDoctorAppointments
	}
	submit(c, func(ctx context.Context) ([]models.AppointmentView, error) {
		return list(ctx, userID)
	}, c.printAppointments)
}

func (c *Console) doctorAppointments(args []string) {
	if !c.require() {
		return
	}
	id, ok := parseID(arg(args, 0))
	if !ok {
		c.fail("error: " + service.ErrDoctorNotFound.Error())
		return
	}
	submit(c, func(ctx context.Context) ([]models.AppointmentView, error) {
		return c.svc.GetAppointmentsByDoctorID(ctx, id)
	}, c.printAppointments)
}

func (c *Console) printAppointments(list []models.AppointmentView) {
	if len(list) == 0 {
		c.print("no appointments\n")
		return
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tDOCTOR\tPATIENT\tSTATUS\tCOMPLAINT\tCONDITION\tCONCLUSION")
	for _, a := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, service.FormatDateTime(a.ScheduledAt), a.DoctorFIO, a.PatientFIO,
			a.Status, a.Complaint, a.Condition, a.Conclusion)
	}
	_ = w.Flush()
}

func (c *Console) updateAppointment(args []string) {
	if !c.require(models.RoleDoctor) {
		return
	}
	id, ok := parseID(arg(args, 0))
	if !ok {
		c.fail("error: " + service.ErrAppointmentNotFound.Error())
		return
	}
	in := service.UpdateAppointmentInput{
		DoctorUserID:  c.session.UserID,
		AppointmentID: id,
		Status:        models.AppointmentStatus(strings.ToLower(arg(args, 1))),
		Complaint:     arg(args, 2),
		Condition:     arg(args, 3),
		Conclusion:    arg(args, 4),
	}
	submit(c, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.svc.UpdateAppointmentByDoctor(ctx, in)
	}, func(struct{}) {
		c.printf("appointment %d updated\n", id)
	})
}
