package contact

// Status is the observable state of a Controller.
type Status int

const (
	// StatusIdle means no attempt yet, or the last attempt was accepted.
	StatusIdle Status = iota
	// StatusInvalid means the last attempt failed validation.
	StatusInvalid
)

func (s Status) String() string {
	if s == StatusInvalid {
		return "invalid"
	}
	return "idle"
}

// Notice delivers the success notice to the user.
type Notice interface {
	Success(message string)
}

// NoticeFunc adapts a function to Notice.
type NoticeFunc func(message string)

// Success implements Notice.
func (f NoticeFunc) Success(message string) { f(message) }

// Outcome describes a single submit attempt.
type Outcome struct {
	Accepted bool
	// Submitted is the state that was validated.
	Submitted FormState
	Errors    ErrorState
}

// Controller owns one form session: its field values, its current errors and
// the Idle/Invalid status. A Controller is not safe for concurrent use.
type Controller struct {
	state  FormState
	errors ErrorState
	status Status
	notice Notice
}

// NewController returns an Idle controller with an empty form.
func NewController(notice Notice) *Controller {
	if notice == nil {
		notice = NoticeFunc(func(string) {})
	}
	return &Controller{errors: ErrorState{}, notice: notice}
}

// UpdateField stores value for field. Unknown fields are ignored and no
// validation runs.
func (c *Controller) UpdateField(field Field, value string) {
	c.state.Set(field, value)
}

// Submit validates the current state. On success the notice fires once, the
// errors are cleared and the form is reset; otherwise the errors replace the
// previous ones.
func (c *Controller) Submit() Outcome {
	submitted := c.state
	errs := Validate(submitted)
	if len(errs) == 0 {
		c.errors = ErrorState{}
		c.status = StatusIdle
		c.state = FormState{}
		c.notice.Success(SuccessMessage)
		return Outcome{Accepted: true, Submitted: submitted, Errors: ErrorState{}}
	}
	c.errors = errs
	c.status = StatusInvalid
	return Outcome{Submitted: submitted, Errors: copyErrors(errs)}
}

// State returns the current field values.
func (c *Controller) State() FormState {
	return c.state
}

// Errors returns a copy of the current error state.
func (c *Controller) Errors() ErrorState {
	return copyErrors(c.errors)
}

// Status reports whether the last attempt failed.
func (c *Controller) Status() Status {
	return c.status
}

func copyErrors(e ErrorState) ErrorState {
	out := make(ErrorState, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
