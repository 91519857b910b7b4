package apperror

// ErrorCode is the general, system-level category of an error.
type ErrorCode string

// BusinessCode names the specific business reason behind an error.
type BusinessCode string

const (
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInternalError    ErrorCode = "INTERNAL_SERVER_ERROR"
)

// General
const (
	BusinessCodeGeneral          BusinessCode = "GENERAL"
	BusinessCodeInvalidFormat    BusinessCode = "INVALID_FORMAT"
	BusinessCodePermissionDenied BusinessCode = "PERMISSION_DENIED"
)

// Users
const (
	BusinessCodeUserNotFound      BusinessCode = "USER_NOT_FOUND"
	BusinessCodeUserAlreadyExists BusinessCode = "USER_ALREADY_EXISTS"
	BusinessCodeUsernameTaken     BusinessCode = "USERNAME_TAKEN"
	BusinessCodeInvalidEmail      BusinessCode = "INVALID_EMAIL"
	BusinessCodeInvalidUsername   BusinessCode = "INVALID_USERNAME"
	BusinessCodeInvalidRole       BusinessCode = "INVALID_ROLE"
	BusinessCodeRoleUnchanged     BusinessCode = "ROLE_UNCHANGED"
	BusinessCodeCannotChangeSelf  BusinessCode = "CANNOT_CHANGE_OWN_ROLE"
)

// Activities
const (
	BusinessCodeActivityNotFound        BusinessCode = "ACTIVITY_NOT_FOUND"
	BusinessCodeInvalidStatusTransition BusinessCode = "INVALID_STATUS_TRANSITION"
	BusinessCodeInvalidSchedule         BusinessCode = "INVALID_SCHEDULE"
	BusinessCodeActivityFull            BusinessCode = "ACTIVITY_FULL"
	BusinessCodeActivityNotOpen         BusinessCode = "ACTIVITY_NOT_OPEN"
	BusinessCodeAlreadyVolunteering     BusinessCode = "ALREADY_VOLUNTEERING"
	BusinessCodeNotVolunteering         BusinessCode = "NOT_VOLUNTEERING"
)

// Posts
const (
	BusinessCodePostNotFound    BusinessCode = "POST_NOT_FOUND"
	BusinessCodeCommentNotFound BusinessCode = "COMMENT_NOT_FOUND"
	BusinessCodeEmptyContent    BusinessCode = "EMPTY_CONTENT"
	BusinessCodeContentTooLong  BusinessCode = "CONTENT_TOO_LONG"
	BusinessCodeAlreadyLiked    BusinessCode = "ALREADY_LIKED"
	BusinessCodeNotLiked        BusinessCode = "NOT_LIKED"
)

// Notifications
const (
	BusinessCodeNotificationNotFound BusinessCode = "NOTIFICATION_NOT_FOUND"
)
