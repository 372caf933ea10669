package tests

import (
	"log"
	"os"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/nsscell/portal/apps/api/echo"
	"github.com/nsscell/portal/core"
	"github.com/nsscell/portal/core/activity"
	"github.com/nsscell/portal/core/college"
	"github.com/nsscell/portal/core/report"
	"github.com/nsscell/portal/core/user"
	"github.com/nsscell/portal/core/volunteer"
	emailsvc "github.com/nsscell/portal/services/email"
	logsvc "github.com/nsscell/portal/services/logger"
	uploadsvc "github.com/nsscell/portal/services/uploads"
	dummydb "github.com/nsscell/portal/storage/database/dummy"
)

var (
	conf *core.Config
	app  *echoapi.Server

	usrRepo user.Repository
	volRepo volunteer.Repository
	actRepo activity.Repository
	colRepo college.Repository

	uploader interface {
		core.FileStorage
		Count() int
	}

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func TestMain(m *testing.M) {
	conf = core.NewConfig()
	conf.Debug = false
	conf.TestMode = true

	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), conf)

	// set up DB & repos
	db := dummydb.Open()
	usrRepo = dummydb.NewUserRepository(db)
	volRepo = dummydb.NewVolunteerRepository(db)
	actRepo = dummydb.NewActivityRepository(db)
	colRepo = dummydb.NewCollegeRepository(db)
	repRepo := dummydb.NewReportRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	uploader = uploadsvc.NewDummyService()

	usrSvc := user.NewService(usrRepo, mailSvc, conf)
	volSvc := volunteer.NewService(volRepo, uploader, conf)
	actSvc := activity.NewService(actRepo, uploader, conf)
	colSvc := college.NewService(colRepo)
	repSvc := report.NewService(repRepo)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	volunteer.InitValidators(validate, translator)

	// set up server
	app = echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:           conf,
			Logger:         logger,
			Validate:       validate,
			Translator:     translator,
			UserSvc:        usrSvc,
			VolunteerSvc:   volSvc,
			ActivitySvc:    actSvc,
			CollegeSvc:     colSvc,
			ReportSvc:      repSvc,
			DisableReqLogs: true,
		},
	)

	os.Exit(m.Run())
}
