package clocker

import "github.com/autoclock/scheduler/internal/browser"

const (
	myPagePath  = "/my_page"
	requestPath = "/my_page/workflow_requests/attendances/new?date="

	// normalScheduleOption 先选中它才会出现休息时间输入框
	normalScheduleOption = "通常勤務"

	geoAccuracy = 100
	clearKeys   = 10
)

const (
	scheduleAttrs = "workflow_request[workflow_request_content_attendance_attributes]" +
		"[workflow_request_content_attendance_attendance_schedule_attributes]"
	breakAttrs = "workflow_request[workflow_request_content_attendance_attributes]" +
		"[workflow_request_content_attendance_break_time_schedules_attributes][0]"
)

var (
	selLoginButton    = browser.Class("attendance-button-mfid")
	selEmail          = browser.ID("mfid_user[email]")
	selPassword       = browser.ID("mfid_user[password]")
	selSubmit         = browser.ID("submitto")
	selClockIn        = browser.XPath("//div[@class='clock_in'][1]/button")
	selClockOut       = browser.XPath("//div[@class='clock_out'][1]/button")
	selTeleworkToggle = browser.XPath("//input[@class='custom-counter-input attendance-input-field-small']")
	selScheduleSelect = browser.XPath("//select[@name='" + scheduleAttrs + "[attendance_schedule_template_id]']")
	selStartTime      = browser.XPath("//input[@name='" + scheduleAttrs + "[start_time]']")
	selEndTime        = browser.XPath("//input[@name='" + scheduleAttrs + "[end_time]']")
	selBreakStart     = browser.XPath("//input[@name='" + breakAttrs + "[start_time]']")
	selBreakEnd       = browser.XPath("//input[@name='" + breakAttrs + "[end_time]']")
	selComment        = browser.ID("workflow_request_comment")
	selCommit         = browser.XPath("//input[@name='commit']")
)
