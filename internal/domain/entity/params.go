package entity

// Query parameter names understood by the page fetchers.
const (
	// apartment trades
	ParamLawdCode = "LAWD_CD"
	ParamDealYM   = "DEAL_YMD"

	// population
	ParamAdmmCode = "admmCd"
	ParamFromYM   = "srchFrYm"
	ParamToYM     = "srchToYm"
	ParamLevel    = "lv"

	// MOLIT statistics forms
	ParamFormID   = "form_id"
	ParamStyleNum = "style_num"
	ParamStartDT  = "start_dt"
	ParamEndDT    = "end_dt"

	// price index
	ParamStatCode  = "statCode"
	ParamStartTime = "startTime"
	ParamEndTime   = "endTime"
	ParamRegion    = "region"
)

// Unsold housing statistics forms.
const (
	FormMonthlyUnsold    = "2082"
	StyleMonthlyUnsold   = "128"
	FormCompletedUnsold  = "5328"
	StyleCompletedUnsold = "1"
)

// DefaultStatblID is the monthly apartment sale price index table.
const DefaultStatblID = "A_2024_00178"
