package interview_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/rehearse/pkg/credentials"
	"github.com/papercomputeco/rehearse/pkg/interview"
)

var _ = Describe("Client JSON API", func() {
	var (
		mux    *http.ServeMux
		server *httptest.Server
		client *interview.Client
		ctx    context.Context
	)

	reply := func(w http.ResponseWriter, status int, body any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		Expect(json.NewEncoder(w).Encode(body)).To(Succeed())
	}

	ok := func(data any) map[string]any {
		return map[string]any{"code": 1, "msg": "success", "data": data}
	}

	BeforeEach(func() {
		ctx = context.Background()
		mux = http.NewServeMux()
		server = httptest.NewServer(mux)

		var err error
		client, err = interview.NewClient(interview.Config{
			BaseURL: server.URL + "/api/",
			Tokens:  credentials.StaticToken("tok"),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("NewClient", func() {
		It("requires a base URL and token source", func() {
			_, err := interview.NewClient(interview.Config{Tokens: credentials.StaticToken("")})
			Expect(err).To(HaveOccurred())

			_, err = interview.NewClient(interview.Config{BaseURL: "http://x/api"})
			Expect(err).To(HaveOccurred())

			_, err = interview.NewClient(interview.Config{BaseURL: "ftp://x", Tokens: credentials.StaticToken("")})
			Expect(err).To(HaveOccurred())
		})

		It("trims the trailing slash", func() {
			Expect(client.BaseURL()).To(Equal(server.URL + "/api"))
		})
	})

	Describe("Login", func() {
		It("posts credentials without requiring a token", func() {
			mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
				var req interview.LoginRequest
				Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
				Expect(req).To(Equal(interview.LoginRequest{Username: "ada", Password: "pw"}))
				Expect(r.Header.Get("authentication")).To(BeEmpty())
				reply(w, http.StatusOK, ok(interview.LoginResponse{Token: "new-token", UserID: 5}))
			})
			anon, err := interview.NewClient(interview.Config{
				BaseURL: server.URL + "/api",
				Tokens:  credentials.StaticToken(""),
			})
			Expect(err).NotTo(HaveOccurred())

			resp, err := anon.Login(ctx, "ada", "pw")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Token).To(Equal("new-token"))
			Expect(resp.UserID).To(Equal(int64(5)))
		})

		It("surfaces a rejected login as an APIError", func() {
			mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, _ *http.Request) {
				reply(w, http.StatusUnauthorized, map[string]any{"code": 0, "msg": "bad password"})
			})

			_, err := client.Login(ctx, "ada", "nope")

			var apiErr *interview.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.Unauthorized()).To(BeTrue())
			Expect(apiErr.Message).To(Equal("bad password"))
		})
	})

	Describe("envelope handling", func() {
		It("treats a non-success code as an APIError", func() {
			mux.HandleFunc("GET /api/interview/list", func(w http.ResponseWriter, _ *http.Request) {
				reply(w, http.StatusOK, map[string]any{"code": 0, "msg": "session expired"})
			})

			_, err := client.ListSessions(ctx)

			var apiErr *interview.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.Code).To(Equal(0))
			Expect(apiErr.Error()).To(ContainSubstring("session expired"))
		})

		It("accepts an empty envelope as success", func() {
			mux.HandleFunc("DELETE /api/interview/9", func(w http.ResponseWriter, _ *http.Request) {
				reply(w, http.StatusOK, map[string]any{})
			})

			Expect(client.DeleteSession(ctx, 9)).To(Succeed())
		})

		It("treats null data as an empty list", func() {
			mux.HandleFunc("GET /api/interview/3/questions", func(w http.ResponseWriter, _ *http.Request) {
				reply(w, http.StatusOK, ok(nil))
			})

			qs, err := client.ListQuestions(ctx, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(qs).To(BeEmpty())
		})

		It("attaches the token", func() {
			mux.HandleFunc("GET /api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Header.Get("authentication")).To(Equal("tok"))
				reply(w, http.StatusOK, ok(interview.User{ID: 1, Username: "ada"}))
			})

			u, err := client.Profile(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Username).To(Equal("ada"))
		})
	})

	Describe("sessions", func() {
		It("decodes sessions with numeric and symbolic statuses", func() {
			mux.HandleFunc("GET /api/interview/list", func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, `{"code":1,"msg":"success","data":[
					{"id":1,"title":"Go","status":1,"startTime":[2024,5,6,7,8,9]},
					{"id":2,"title":"","status":"COMPLETED","startTime":"2024-05-06T07:08:09","report":{"sessionId":2,"overallScore":8.5}}
				]}`)
			})

			sessions, err := client.ListSessions(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(sessions).To(HaveLen(2))
			Expect(sessions[0].Status).To(Equal(interview.StatusInProgress))
			Expect(sessions[0].StartTime.Year()).To(Equal(2024))
			Expect(sessions[0].DisplayName()).To(Equal("Go"))
			Expect(sessions[1].Status.IsCompleted()).To(BeTrue())
			Expect(sessions[1].CanViewReport()).To(BeTrue())
			Expect(sessions[1].DisplayName()).To(Equal("Interview #2"))
			Expect(sessions[0].StartTime.Equal(sessions[1].StartTime.Time)).To(BeTrue())
		})

		It("creates, starts and finishes a session", func() {
			mux.HandleFunc("POST /api/interview/create", func(w http.ResponseWriter, r *http.Request) {
				var req interview.CreateSessionRequest
				Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
				Expect(req.DifficultyLevel).To(Equal(interview.DifficultySenior))
				reply(w, http.StatusOK, ok(interview.Session{ID: 11, Title: req.Title, Status: interview.StatusCreated}))
			})
			mux.HandleFunc("POST /api/interview/11/start", func(w http.ResponseWriter, _ *http.Request) {
				reply(w, http.StatusOK, ok(interview.Session{ID: 11, Status: interview.StatusInProgress}))
			})
			mux.HandleFunc("POST /api/interview/11/finish", func(w http.ResponseWriter, _ *http.Request) {
				reply(w, http.StatusOK, ok(interview.Session{ID: 11, Status: interview.StatusCompleted}))
			})

			req := interview.NewCreateSessionRequest(interview.Position{Name: "SRE", Level: "Senior"}, "", "")
			Expect(req.Title).To(Equal("SRE mock interview"))

			s, err := client.CreateSession(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.ID).To(Equal(int64(11)))

			s, err = client.StartSession(ctx, s.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Status.IsInProgress()).To(BeTrue())

			s, err = client.FinishSession(ctx, s.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Status).To(Equal(interview.StatusCompleted))
			Expect(s.CanViewReport()).To(BeFalse())
		})
	})

	Describe("answers", func() {
		It("refuses to answer before the question id is known", func() {
			_, err := client.AnswerCurrent(ctx, &interview.Session{ID: 1}, "my answer")
			Expect(err).To(MatchError(interview.ErrNoQuestion))

			_, err = client.SubmitAnswer(ctx, interview.AnswerSubmission{UserAnswer: "x"})
			Expect(err).To(MatchError(interview.ErrNoQuestion))
		})

		It("submits the answer for the current question", func() {
			mux.HandleFunc("POST /api/interview/submit-answer", func(w http.ResponseWriter, r *http.Request) {
				var sub interview.AnswerSubmission
				Expect(json.NewDecoder(r.Body).Decode(&sub)).To(Succeed())
				Expect(sub).To(Equal(interview.AnswerSubmission{QuestionID: 7, UserAnswer: "channels"}))
				reply(w, http.StatusOK, ok(interview.Evaluation{OverallScore: 7.5, AIFeedback: "good"}))
			})

			id := int64(7)
			eval, err := client.AnswerCurrent(ctx, &interview.Session{ID: 1, CurrentQuestionID: &id}, "channels")
			Expect(err).NotTo(HaveOccurred())
			Expect(eval.OverallScore).To(Equal(7.5))
			Expect(eval.AIFeedback).To(Equal("good"))
		})

		It("lists evaluations", func() {
			mux.HandleFunc("GET /api/interview/4/evaluations", func(w http.ResponseWriter, _ *http.Request) {
				reply(w, http.StatusOK, ok([]interview.Evaluation{{ID: 1}, {ID: 2}}))
			})

			evals, err := client.ListEvaluations(ctx, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(evals).To(HaveLen(2))
		})
	})

	Describe("ListPositions", func() {
		It("drops blank requirements and skills", func() {
			mux.HandleFunc("GET /api/positions", func(w http.ResponseWriter, _ *http.Request) {
				reply(w, http.StatusOK, ok([]interview.Position{{
					ID: 1, Name: "Backend", Level: "Mid",
					Requirements: []string{"Go", " ", ""},
					Skills:       []string{"", "SQL"},
				}}))
			})

			positions, err := client.ListPositions(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(positions).To(HaveLen(1))
			Expect(positions[0].Requirements).To(Equal([]string{"Go"}))
			Expect(positions[0].Skills).To(Equal([]string{"SQL"}))
		})
	})
})
