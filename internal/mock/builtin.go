package mock

import (
	"regexp"
	"strings"
)

// DefaultBasePath is the API prefix of the built-in routes
const DefaultBasePath = "/api/v1"

const idSegment = `([^/]+)`

const (
	mockUser = `{"_id":"64f000000000000000000001","email":"admin@fitadmin.dev","fullname":"Admin","isActive":true,"role":{"_id":"r1","name":"admin"}}`

	trainerA = `{"_id":"t1","first_name":"Ava","last_name":"Stone","email":"ava@fit.dev","status":"active"}`
	trainerB = `{"_id":"t2","first_name":"Ben","last_name":"Ruiz","email":"ben@fit.dev","status":"suspended"}`
	trainerC = `{"_id":"t3","first_name":"Cleo","last_name":"Park","email":"cleo@fit.dev"}`

	traineeA = `{"_id":"c1","first_name":"Dan","last_name":"Moss","email":"dan@fit.dev","status":"active"}`
	traineeB = `{"_id":"c2","first_name":"Eli","last_name":"Ward","email":"eli@fit.dev","status":"active"}`

	exerciseA = `{"_id":"e1","trainer":null,"title":"Back Squat","type":["strength"],"status":"published"}`
	exerciseB = `{"_id":"e2","trainer":null,"title":"Plank","type":["core"],"status":"draft"}`

	notificationA = `{"_id":"n1","title":"Welcome","message":"Hello trainers","status":"sent"}`

	htmlErrorPage = `<!DOCTYPE html><html><head><title>502 Bad Gateway</title></head><body><h1>Bad Gateway</h1></body></html>`
	ngrokPage     = `<!DOCTYPE html><html><head><title>ngrok</title></head><body>You are about to visit this site. <a href="https://ngrok.com">ngrok.com</a> ERR_NGROK_6024</body></html>`
)

// DefaultRoutes returns the built-in backend routes under basePath. They
// cover every endpoint the client calls and replay each response shape.
func DefaultRoutes(basePath string) []Route {
	b := strings.TrimRight(basePath, "/")
	q := regexp.QuoteMeta(b)
	rx := func(pattern string) string { return "^" + q + pattern + "$" }

	return []Route{
		// auth
		{Name: "sign in", Method: "POST", Path: b + "/auth/login", Body: `{"data":{"accessToken":"mock-access-token","refreshToken":"mock-refresh-token","user":` + mockUser + `}}`},
		{Name: "sign up", Method: "POST", Path: b + "/auth/signup", Status: 201, Body: `{"data":{"accessToken":"mock-access-token","refreshToken":"mock-refresh-token","user":` + mockUser + `}}`},
		{Name: "logout", Method: "GET", Path: b + "/auth/logout", Status: 204},

		// trainers and trainees
		{Name: "trainers", Method: "GET", Path: b + "/user/trainers", Body: `{"data":[` + trainerA + `,` + trainerB + `,` + trainerC + `],"meta":{"total":3,"page":1,"limit":10,"totalPages":1,"hasNext":false,"hasPrev":false}}`},
		{Name: "trainer clients", Method: "GET", Path: rx(`/user/trainers/` + idSegment + `/clients`), PathType: "regex", Body: `[` + traineeA + `,` + traineeB + `]`},
		{Name: "trainer", Method: "GET", Path: rx(`/user/trainers/` + idSegment), PathType: "regex", Body: `{"data":{"_id":"{{$1}}","first_name":"Ava","last_name":"Stone","email":"ava@fit.dev","status":"active"}}`},
		{Name: "trainees", Method: "GET", Path: b + "/user/clients", Body: `{"data":[` + traineeA + `,` + traineeB + `],"meta":{"total":42,"page":1,"limit":2,"totalPages":21,"hasNext":true,"hasPrev":false}}`},
		{Name: "trainee", Method: "GET", Path: rx(`/user/clients/` + idSegment), PathType: "regex", Body: `{"data":{"_id":"{{$1}}","first_name":"Dan","last_name":"Moss","email":"dan@fit.dev","status":"active"}}`},
		{Name: "toggle user status", Method: "GET", Path: rx(`/user/toggle/status/` + idSegment), PathType: "regex", Body: `{"data":{"_id":"{{$1}}","isActive":false}}`},
		{Name: "user", Method: "GET", Path: rx(`/user/` + idSegment), PathType: "regex", Body: `{"status":0,"message":"ok","data":` + mockUser + `}`},
		{Name: "users", Method: "GET", Path: b + "/user", Body: `[` + mockUser + `]`},

		// exercises
		{Name: "bulk import exercises", Method: "POST", Path: b + "/exercise/bulk-import", Body: `{"status":0,"data":{"inserted":2}}`},
		{Name: "exercises", Method: "GET", Path: b + "/exercise", Body: `{"data":[` + exerciseA + `,` + exerciseB + `],"meta":{"total":57,"page":1,"limit":2,"totalPages":29,"hasNext":true,"hasPrev":false}}`},
		{Name: "exercise status", Method: "PATCH", Path: rx(`/exercise/` + idSegment + `/status`), PathType: "regex", Body: `{"data":{"_id":"{{$1}}","trainer":null,"title":"Back Squat","status":"draft"}}`},
		{Name: "exercise", Method: "GET", Path: rx(`/exercise/` + idSegment), PathType: "regex", Body: `{"data":{"_id":"{{$1}}","trainer":null,"title":"Back Squat","type":["strength"],"status":"published"}}`},
		{Name: "create exercise", Method: "POST", Path: b + "/exercise", Status: 201, Body: `{"data":{"_id":"e-new","trainer":null,"title":"New exercise","status":"draft"}}`},
		{Name: "update exercise", Method: "PUT", Path: rx(`/exercise/` + idSegment), PathType: "regex", Body: `{"data":{"_id":"{{$1}}","trainer":null,"title":"Updated exercise","status":"published"}}`},
		{Name: "delete exercise", Method: "DELETE", Path: rx(`/exercise/` + idSegment), PathType: "regex", Status: 204},

		// notifications
		{Name: "send notification", Method: "POST", Path: rx(`/admin/notifications/` + idSegment + `/send`), PathType: "regex", RequireAuth: true, Body: `{"data":{"message":"Notification {{$1}} sent","fcmResult":["projects/fit/messages/1"]}}`},
		{Name: "notifications", Method: "GET", Path: b + "/admin/notifications", RequireAuth: true, Body: `{"data":[` + notificationA + `],"meta":{"total":1,"page":1,"limit":10,"totalPages":1,"hasNext":false,"hasPrev":false}}`},
		{Name: "create notification", Method: "POST", Path: b + "/admin/notifications", RequireAuth: true, Status: 201, Body: `{"data":{"_id":"n-new","title":"Draft","message":"Draft body","status":"draft"}}`},
		{Name: "notification", Method: "GET", Path: rx(`/admin/notifications/` + idSegment), PathType: "regex", RequireAuth: true, Body: `{"data":{"_id":"{{$1}}","title":"Welcome","message":"Hello trainers","status":"sent"}}`},
		{Name: "delete notification", Method: "DELETE", Path: rx(`/admin/notifications/` + idSegment), PathType: "regex", RequireAuth: true, Status: 204},
		{Name: "update notification", Method: "PUT", Path: rx(`/notifications/` + idSegment), PathType: "regex", RequireAuth: true, Body: `{"data":{"_id":"{{$1}}","title":"Edited","message":"Edited body","status":"draft"}}`},

		// legal
		{Name: "terms", Method: "GET", Path: b + "/termAndCondition", Body: `{"data":{"_id":"tc1","content":"<p>Terms</p>"}}`},
		{Name: "save terms", Method: "POST", Path: b + "/termAndCondition", PathType: "prefix", Body: `{"data":{"_id":"tc1","content":"<p>Terms</p>"}}`},
		{Name: "update terms", Method: "PUT", Path: b + "/termAndCondition", PathType: "prefix", Body: `{"data":{"_id":"tc1","content":"<p>Terms</p>"}}`},
		{Name: "privacy", Method: "GET", Path: b + "/privacyPolicy", Body: `{"data":{"_id":"pp1","content":"<p>Privacy</p>"}}`},
		{Name: "save privacy", Method: "POST", Path: b + "/privacyPolicy", PathType: "prefix", Body: `{"data":{"_id":"pp1","content":"<p>Privacy</p>"}}`},
		{Name: "update privacy", Method: "PUT", Path: b + "/privacyPolicy", PathType: "prefix", Body: `{"data":{"_id":"pp1","content":"<p>Privacy</p>"}}`},

		// settings
		{Name: "app setting", Method: "GET", Path: b + "/appSetting", Body: `{"data":{"_id":"s1","notificationsEnabled":true}}`},
		{Name: "toggle app setting", Method: "PUT", Path: rx(`/appSetting/` + idSegment), PathType: "regex", Body: `{"data":{"_id":"{{$1}}","notificationsEnabled":false}}`},

		// uploads
		{Name: "upload image", Method: "POST", Path: b + "/uploads/image", Status: 201, Body: `{"image":"uploads/{{filename}}"}`},
		{Name: "pdf to images", Method: "POST", Path: b + "/uploads/pdf-to-images", Status: 201, Body: `{"data":{"totalPages":2,"images":["{{filename}}-1.png","{{filename}}-2.png"]}}`},

		// response shapes
		{Name: "shape no content", Method: "GET", Path: b + "/shapes/no-content", Status: 204},
		{Name: "shape empty", Method: "GET", Path: b + "/shapes/empty"},
		{Name: "shape null", Method: "GET", Path: b + "/shapes/null", Body: `null`},
		{Name: "shape legacy", Method: "GET", Path: b + "/shapes/legacy", Body: `{"status":0,"message":"ok"}`},
		{Name: "shape array", Method: "GET", Path: b + "/shapes/array", Body: `[1,2,3]`},
		{Name: "shape unexpected", Method: "GET", Path: b + "/shapes/unexpected", Body: `{"message":"Unexpected payload"}`},
		{Name: "shape html", Method: "GET", Path: b + "/shapes/html", Headers: map[string]string{"Content-Type": "text/html"}, Body: htmlErrorPage},
		{Name: "shape ngrok", Method: "GET", Path: b + "/shapes/ngrok", Headers: map[string]string{"Content-Type": "text/html"}, Body: ngrokPage},
		{Name: "shape server error", Method: "GET", Path: b + "/shapes/server-error", Status: 500, Body: `{"message":"Internal server error"}`},
		{Name: "shape empty failure", Method: "GET", Path: b + "/shapes/empty-failure", Status: 502},
		{Name: "shape unauthorized", Method: "GET", Path: b + "/shapes/unauthorized", Status: 401, Body: `{"message":"Session expired"}`},
		{Name: "shape forbidden", Method: "GET", Path: b + "/shapes/forbidden", Status: 403, Body: `{"message":"Forbidden"}`},
		{Name: "shape slow", Method: "GET", Path: b + "/shapes/slow", Delay: 200, Body: `{"data":"slow"}`},
	}
}

// DefaultConfig returns a configuration serving the built-in routes only
func DefaultConfig() *Config {
	return &Config{
		Port:     DefaultPort,
		Host:     DefaultHost,
		Logging:  true,
		Builtin:  true,
		BasePath: DefaultBasePath,
	}
}
