package user

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/nsscell/portal/core"
)

var (
	allRolesTag  = "allroles"
	allRolesText = "invalid roles"

	usernameOrEmailTag  = "username_or_email"
	usernameOrEmailText = "one of username or email is required"

	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdComplexityTag  = "pwdcplx"
	pwdComplexityText = "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character"
	specialRegex      = regexp.MustCompile("[^A-Za-z0-9]")

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"

	pwdNoCommonTag  = "pwdnocommon"
	pwdNoCommonText = "password is too common"
	commonPasswords = make([]string, 0, 141) // number of total pwds in /assets/common-passwords.txt.gz
)

// InitValidators registers this package's custom validators and translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(allRolesTag, allRolesValidation)
	core.RegisterCustomTranslation(validate, translator, allRolesTag, allRolesText)

	validate.RegisterStructValidation(userStructValidation, NewUser{})
	validate.RegisterStructValidation(studentStructValidation, NewStudent{})
	validate.RegisterStructValidation(userStructValidation, UpdateUser{})
	core.RegisterCustomTranslation(validate, translator, usernameOrEmailTag, usernameOrEmailText)
	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(validate, translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(validate, translator, pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(validate, translator, pwdComplexityTag, pwdComplexityText)
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
	core.RegisterCustomTranslation(validate, translator, pwdNoCommonTag, pwdNoCommonText)
}

// LoadCommonPasswords loads the common-password denylist, if present.
func LoadCommonPasswords(conf *core.Config, logger core.Logger) {
	pwdAssetPath := filepath.Join(conf.WorkDir, "assets", "common-passwords.txt.gz")
	file, err := os.Open(pwdAssetPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn(fmt.Sprintf("user.LoadCommonPasswords: %v", err))
		}
		return
	}
	//goland:noinspection GoUnhandledErrorResult
	defer file.Close()
	if gzRdr, err := gzip.NewReader(file); err == nil {
		scanner := bufio.NewScanner(gzRdr)
		for scanner.Scan() {
			commonPasswords = append(commonPasswords, strings.TrimSpace(scanner.Text()))
		}
	}
	sort.Strings(commonPasswords)
}

// Custom Validators

// allRolesValidation checks that provided user roles are all in AllRoles
func allRolesValidation(fl validator.FieldLevel) bool {
	if roles, ok := fl.Field().Interface().([]string); ok {
		sort.Strings(AllRoles)
		for _, role := range roles {
			idx := sort.SearchStrings(AllRoles, role)
			if idx >= len(AllRoles) || AllRoles[idx] != role {
				return false
			}
		}
		return true
	}
	return false
}

// userStructValidation does struct level validation on NewUser and UpdateUser structs.
func userStructValidation(sl validator.StructLevel) {
	switch usr := sl.Current().Interface().(type) {
	case NewUser:
		validateUsernameAndEmail(usr, sl)
		validatePassword(usr.Password, usr.Name, usr.Username, usr.Email, sl)
	case UpdateUser:
		if usr.Password != "" {
			validatePassword(usr.Password, usr.Name, usr.Username, usr.Email, sl)
		}
	}
}

// studentStructValidation does NewStudent's struct level validation.
func studentStructValidation(sl validator.StructLevel) {
	if ns, ok := sl.Current().Interface().(NewStudent); ok {
		validatePassword(ns.Password, ns.Name, "", ns.Email, sl)
	}
}

// validateUsernameAndEmail checks that one of Username or Email is provided
func validateUsernameAndEmail(nu NewUser, sl validator.StructLevel) {
	if len(nu.Username) == 0 && len(nu.Email) == 0 {
		sl.ReportError(nu.Username, "username", "Username", usernameOrEmailTag, "")
		sl.ReportError(nu.Email, "email", "Email", usernameOrEmailTag, "")
	}
}

// validatePassword applies the password policy.
func validatePassword(pass, name, uname, email string, sl validator.StructLevel) {
	if len(pass) < pwdMinLen {
		sl.ReportError(pass, "password", "Password", pwdMinLenTag, "")
		return
	}
	if strings.ContainsAny(pass, " \t\n\r") {
		sl.ReportError(pass, "password", "Password", pwdNoSpaceTag, "")
		return
	}

	var hasUpper, hasLower, hasDigit bool
	allNum := true
	for _, r := range pass {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
			allNum = false
		case unicode.IsLower(r):
			hasLower = true
			allNum = false
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			allNum = false
		}
	}
	if allNum {
		sl.ReportError(pass, "password", "Password", pwdNotAllNumTag, "")
		return
	}
	if !(hasUpper && hasLower && hasDigit && specialRegex.MatchString(pass)) {
		sl.ReportError(pass, "password", "Password", pwdComplexityTag, "")
		return
	}

	// reject passwords too similar to user attributes
	lowPass := strings.ToLower(pass)
	for _, attr := range []string{name, uname, email} {
		if attr == "" {
			continue
		}
		ratio := difflib.NewMatcher(
			strings.Split(lowPass, ""),
			strings.Split(strings.ToLower(attr), ""),
		).QuickRatio()
		if ratio >= pwdMaxSim {
			sl.ReportError(pass, "password", "Password", pwdAttrSimTag, "")
			return
		}
	}

	if len(commonPasswords) > 0 {
		if i := sort.SearchStrings(commonPasswords, lowPass); i < len(commonPasswords) && commonPasswords[i] == lowPass {
			sl.ReportError(pass, "password", "Password", pwdNoCommonTag, "")
		}
	}
}
