package handler

import (
	"net/http"

	"github.com/NagawaEsther/live-well/internal/domain"
	"github.com/NagawaEsther/live-well/internal/metrics"
	"github.com/NagawaEsther/live-well/internal/reporting"
	"github.com/NagawaEsther/live-well/internal/service"
)

// Deps is everything the HTTP layer needs. Metrics and Reporter may be nil;
// LoginLimiter may be nil to disable rate limiting.
type Deps struct {
	DB             Pinger
	Auth           *service.AuthService
	Tokens         *service.TokenService
	Guard          *service.Guard
	Doctors        *service.ResourceService[domain.Doctor, *domain.Doctor]
	Appointments   *service.ResourceService[domain.Appointment, *domain.Appointment]
	MedicalRecords *service.MedicalRecordService
	Phones         *service.PhoneService
	SMSLogs        *service.ResourceService[domain.SMSLog, *domain.SMSLog]
	USSDSessions   *service.ResourceService[domain.USSDSession, *domain.USSDSession]
	VoiceCalls     *service.ResourceService[domain.VoiceCall, *domain.VoiceCall]
	Telecom        *service.TelecomService
	Metrics        *metrics.Metrics
	Reporter       reporting.Reporter
	LoginLimiter   *service.TokenBucket
}

// RegisterRoutes sets up all HTTP routes on the given mux. Every route
// passes through a Policy.
func RegisterRoutes(mux *http.ServeMux, d Deps) {
	if d.Reporter == nil {
		d.Reporter = reporting.Nop{}
	}
	errs := errorWriter{reporter: d.Reporter}
	rt := &router{mux: mux, tokens: d.Tokens, guard: d.Guard, metrics: d.Metrics, errs: errs}

	limit := func(h http.HandlerFunc) http.HandlerFunc {
		if d.LoginLimiter == nil {
			return h
		}
		return RateLimit(d.LoginLimiter, h).ServeHTTP
	}

	rt.handle("GET /{$}", Public, HandleHome)
	rt.handle("GET /api/docs", Public, HandleDocs)
	rt.handle("GET /swagger.json", Public, HandleSwaggerJSON)
	rt.handle("GET /healthz", Public, HandleHealthz(d.DB))
	if d.Metrics != nil {
		rt.handle("GET /metrics", Public, d.Metrics.Handler().ServeHTTP)
	}

	authH := NewAuthHandler(d.Auth, d.Tokens, d.Metrics, errs)
	rt.handle("POST /api/v1/users/register", Public, limit(authH.HandleRegister))
	rt.handle("POST /api/v1/users/login", Public, limit(authH.HandleLogin))
	rt.handle("GET /api/v1/users/me", Authenticated, authH.HandleMe)
	rt.handle("GET /protected", Authenticated, authH.HandleProtected)

	userH := NewUserHandler(d.Auth, d.Phones, d.MedicalRecords, errs)
	self := SelfOrAdmin("id")
	rt.handle("GET /api/v1/users", AdminOnly, userH.HandleList)
	rt.handle("GET /api/v1/users/{id}", self, userH.HandleGet)
	rt.handle("PUT /api/v1/users/{id}", self, userH.HandleUpdate)
	rt.handle("DELETE /api/v1/users/{id}", AdminOnly, userH.HandleDelete)
	rt.handle("GET /api/v1/users/{id}/phones", self, userH.HandleListPhones)
	rt.handle("POST /api/v1/users/{id}/phones", self, userH.HandleCreatePhone)
	rt.handle("GET /api/v1/users/{id}/medical-records", self, userH.HandleListMedicalRecords)

	registerResource(rt, "/api/v1/doctors", NewResourceHandler(d.Doctors, errs), resourcePolicies{
		create: AdminOnly, read: Authenticated, update: AdminOnly, delete: AdminOnly,
	})
	registerResource(rt, "/api/v1/appointments", NewResourceHandler(d.Appointments, errs), resourcePolicies{
		create: Authenticated, read: AdminOnly, update: AdminOnly, delete: AdminOnly,
	})
	registerResource(rt, "/api/v1/medical-records", NewResourceHandler(d.MedicalRecords.ResourceService, errs), resourcePolicies{
		create: AnyRole(domain.RoleDoctor, domain.RoleAdmin), read: AdminOnly, update: AdminOnly, delete: AdminOnly,
	})
	registerResource(rt, "/api/v1/phones", NewResourceHandler(d.Phones.ResourceService, errs), allOps(AdminOnly))
	registerResource(rt, "/api/v1/sms-logs", NewResourceHandler(d.SMSLogs, errs), allOps(AdminOnly))
	registerResource(rt, "/api/v1/ussd-sessions", NewResourceHandler(d.USSDSessions, errs), allOps(AdminOnly))
	registerResource(rt, "/api/v1/voice-call-logs", NewResourceHandler(d.VoiceCalls, errs), allOps(AdminOnly))

	telecomH := NewTelecomHandler(d.Telecom, d.Metrics, errs)
	rt.handle("POST /send-sms", Authenticated, telecomH.HandleSendSMS)
	rt.handle("POST /make-call", Authenticated, telecomH.HandleMakeCall)
	rt.handle("POST /start-ussd", Authenticated, telecomH.HandleStartUSSD)
	rt.handle("POST /ussd-response", Public, telecomH.HandleUSSDResponse)
}

// Options configures the middleware wrapped around the mux.
type Options struct {
	CORSAllowedOrigins []string
	Metrics            *metrics.Metrics
	Reporter           reporting.Reporter
}

// Wrap applies the middleware chain shared by every route. AccessLog sits
// inside RequestID and directly around Recover so that it observes the
// route pattern the mux records on the request.
func Wrap(h http.Handler, opts Options) http.Handler {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = reporting.Nop{}
	}
	h = Recover(reporter, h)
	h = AccessLog(opts.Metrics, h)
	h = RequestID(h)
	h = CORS(opts.CORSAllowedOrigins, h)
	return SecurityHeaders(h)
}
