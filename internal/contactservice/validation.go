package contactservice

import (
	"github.com/ekesta/portfolio/internal/common"
)

const maxPageLimit = 100

func validateName(v *common.Validator, name string) {
	v.Check(name != "", "name", "must be provided")
	v.Check(v.CheckStringLength(name, 0, 100), "name", "must not be more than 100 characters long")
}

func validateEmail(v *common.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(v.Matches(email, common.EmailRX), "email", "must be a valid email address")
}

func validateSubject(v *common.Validator, subject string) {
	v.Check(subject != "", "subject", "must be provided")
	v.Check(v.CheckStringLength(subject, 0, 200), "subject", "must not be more than 200 characters long")
}

func validateMessage(v *common.Validator, message string) {
	v.Check(message != "", "message", "must be provided")
	v.Check(v.CheckStringLength(message, 0, 2000), "message", "must not be more than 2000 characters long")
}

func validateStatus(v *common.Validator, status string) {
	v.Check(v.PermittedValue(status, Statuses...), "status", "must be one of new, read or replied")
}

func validateID(v *common.Validator, id int64) {
	v.Check(id > 0, "id", "must be greater than zero")
}
