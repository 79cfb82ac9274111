package domain

// AuditAction tags an audit log entry with the kind of security-relevant
// action it records.
type AuditAction string

const (
	AuditUserLogin      AuditAction = "USER_LOGIN"
	AuditUserLogout     AuditAction = "USER_LOGOUT"
	AuditTokenRefreshed AuditAction = "TOKEN_REFRESHED"

	AuditUserCreated     AuditAction = "USER_CREATED"
	AuditUserUpdated     AuditAction = "USER_UPDATED"
	AuditUserDeleted     AuditAction = "USER_DELETED"
	AuditUserSelfDeleted AuditAction = "USER_SELF_DELETED"

	AuditBookCreated AuditAction = "BOOK_CREATED"
	AuditBookUpdated AuditAction = "BOOK_UPDATED"
	AuditBookDeleted AuditAction = "BOOK_DELETED"

	AuditLoanCreated  AuditAction = "LOAN_CREATED"
	AuditLoanReturned AuditAction = "LOAN_RETURNED"
	AuditLoanOverdue  AuditAction = "LOAN_OVERDUE"

	AuditTokenSweep AuditAction = "TOKEN_EXPIRED_SWEEP"
)

// Audited entity type tags.
const (
	EntityUser         = "User"
	EntityBook         = "Book"
	EntityLoan         = "Loan"
	EntityRefreshToken = "RefreshToken"
)
