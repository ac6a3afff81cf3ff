package fields

// Field names of a grievance record.
const (
	ID             = "_id"
	State          = "state"
	OrgCode        = "org_code"
	Sex            = "sex"
	CategoryV7     = "CategoryV7"
	DiaryDate      = "DiaryDate"
	RecvdDate      = "recvd_date"
	ClosingDate    = "closing_date"
	ResolutionDate = "resolution_date"
	DistName       = "dist_name"
	Pincode        = "pincode"
	V7Target       = "v7_target"
	UserCode       = "UserCode"
	RegistrationNo = "registration_no"
	RemarksText    = "remarks_text"
	SubjectContent = "subject_content_text"
)

var grievanceFields = []Field{
	{Name: ID, Kind: Plain, Type: "string", Description: "Unique grievance identifier"},
	{Name: RegistrationNo, Kind: Plain, Type: "string", Description: "Grievance registration number"},
	{Name: State, Kind: Plain, Type: "string", Description: "State code"},
	{Name: DistName, Kind: Plain, Type: "string", Description: "District name"},
	{Name: Pincode, Kind: Plain, Type: "string", Description: "Postal PIN code"},
	{Name: Sex, Kind: Plain, Type: "string", Description: "Gender of the complainant"},
	{Name: OrgCode, Kind: Plain, Type: "string", Description: "Organization code handling the grievance"},
	{Name: CategoryV7, Kind: WrappedInteger, Type: "integer", Description: "Category classification"},
	{Name: V7Target, Kind: Plain, Type: "string", Description: "Target classification"},
	{Name: UserCode, Kind: Plain, Type: "string", Description: "Code of the user who filed the grievance"},
	{Name: DiaryDate, Kind: WrappedDate, Type: "datetime", Description: "Diary entry date"},
	{Name: RecvdDate, Kind: WrappedDate, Type: "datetime", Description: "Date the grievance was received"},
	{Name: ClosingDate, Kind: WrappedDate, Type: "datetime", Description: "Date the grievance was closed"},
	{Name: ResolutionDate, Kind: WrappedDate, Type: "datetime", Description: "Date the grievance was resolved"},
	{Name: RemarksText, Kind: Plain, Type: "text", Description: "Remarks text"},
	{Name: SubjectContent, Kind: Plain, Type: "text", Description: "Subject content text"},
}

var grievanceAllowLists = map[Operation][]string{
	OpUniqueValues: {
		ID, State, OrgCode, Sex, CategoryV7, DiaryDate, RecvdDate, ClosingDate,
		ResolutionDate, DistName, Pincode, V7Target, UserCode, RegistrationNo,
	},
	OpStatistics: {
		State, OrgCode, Sex, CategoryV7, DiaryDate, RecvdDate, ClosingDate,
		ResolutionDate, DistName, V7Target,
	},
}

// Default returns the registry for grievance records.
func Default() *Registry {
	return NewRegistry(ID, grievanceFields, grievanceAllowLists)
}
