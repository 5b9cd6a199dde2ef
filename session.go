package notecheck

// State is the lifecycle position of a Session.
type State int

const (
	StateNoImage State = iota
	StateImageLoaded
)

func (s State) String() string {
	switch s {
	case StateNoImage:
		return "no image loaded"
	case StateImageLoaded:
		return "image loaded"
	}
	return "unknown"
}

// Session owns the current input image and the template set it is checked against.
// A Session is not safe for concurrent use.
type Session struct {
	templates *TemplateSet
	matcher   *Matcher
	threshold float64
	input     *Image
	name      string
}

type SessionOption func(*Session)

func WithThreshold(t float64) SessionOption {
	return func(s *Session) { s.threshold = t }
}

func WithMatcher(m *Matcher) SessionOption {
	return func(s *Session) {
		if m != nil {
			s.matcher = m
		}
	}
}

// NewSession starts a session in StateNoImage. An empty template set is a *ConfigurationError.
func NewSession(templates *TemplateSet, opts ...SessionOption) (*Session, error) {
	if templates.Empty() {
		return nil, &ConfigurationError{Msg: "no templates loaded"}
	}
	s := &Session{
		templates: templates,
		matcher:   defaultMatcher,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Session) Templates() *TemplateSet { return s.templates }
func (s *Session) Threshold() float64      { return s.threshold }

// Input returns the current input image, or nil before the first upload.
func (s *Session) Input() *Image { return s.input }

// InputName is the path or name given with the current input.
func (s *Session) InputName() string { return s.name }

func (s *Session) State() State {
	if s.input == nil {
		return StateNoImage
	}
	return StateImageLoaded
}

// UploadImage replaces the input with the image at path. On failure the previous input
// is kept and a *LoadError is returned.
func (s *Session) UploadImage(path string) error {
	img, err := LoadImage(path)
	if err != nil {
		return err
	}
	s.input, s.name = img, path
	return nil
}

// UploadImageBytes is UploadImage for in-memory data.
func (s *Session) UploadImageBytes(name string, data []byte) error {
	img, err := LoadImageFromBytes(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = name
		}
		return err
	}
	s.input, s.name = img, name
	return nil
}

// Match finds the best template for the current input.
func (s *Session) Match() (*MatchResult, error) {
	if s.input == nil {
		return nil, errNoInput
	}
	return s.matcher.FindBestMatch(s.input, s.templates)
}

// Detect classifies the current input. It does not change the session state.
func (s *Session) Detect() (Verdict, error) {
	res, err := s.Match()
	if err != nil {
		return Verdict{}, err
	}
	return Classify(res, s.threshold), nil
}
