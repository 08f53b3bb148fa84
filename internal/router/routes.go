package router

type Name string

const (
	Home            Name = "Home"
	Login           Name = "Login"
	Register        Name = "Register"
	Dashboard       Name = "Dashboard"
	CreateSurvey    Name = "CreateSurvey"
	EditSurvey      Name = "EditSurvey"
	SurveyResponses Name = "SurveyResponses"
	TakeSurvey      Name = "TakeSurvey"
	NotFound        Name = "NotFound"
)

const (
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
)

// Meta is fixed at build time. RequiresAuth and RequiresGuest are never
// both set.
type Meta struct {
	RequiresAuth  bool
	RequiresGuest bool
}

type Route struct {
	// Path segments starting with ':' are parameters. A lone "*" matches
	// anything.
	Path string
	Name Name
	Meta Meta
}

// Routes is the application's route table, matched in order.
var Routes = []Route{
	{Path: "/", Name: Home},
	{Path: "/login", Name: Login, Meta: Meta{RequiresGuest: true}},
	{Path: "/register", Name: Register, Meta: Meta{RequiresGuest: true}},
	{Path: "/dashboard", Name: Dashboard, Meta: Meta{RequiresAuth: true}},
	{Path: "/surveys/create", Name: CreateSurvey, Meta: Meta{RequiresAuth: true}},
	{Path: "/surveys/:id/edit", Name: EditSurvey, Meta: Meta{RequiresAuth: true}},
	{Path: "/surveys/:id/responses", Name: SurveyResponses, Meta: Meta{RequiresAuth: true}},
	{Path: "/surveys/:id", Name: TakeSurvey},
	{Path: "*", Name: NotFound},
}
