package jobserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_jobdash/internal/session"
	"github.com/anatolykoptev/go_jobdash/internal/toolutil"
)

// InterviewQuestionsOutput is the output of interview_questions.
type InterviewQuestionsOutput struct {
	Profile   string                  `json:"profile"`
	Questions []session.QuestionScore `json:"questions"`
}

// InterviewScoreInput is the input of interview_score.
type InterviewScoreInput struct {
	Index    int    `json:"index,omitempty" jsonschema:"1-based question number from interview_questions (takes precedence over question)" validate:"min=0"`
	Question string `json:"question,omitempty" jsonschema:"Exact question text, used when index is not given"`
	Score    int    `json:"score" jsonschema:"Self-assessed score from 0 to 10"`
}

// InterviewScoreOutput is the output of interview_score.
type InterviewScoreOutput struct {
	Question string  `json:"question"`
	Score    int     `json:"score"`
	Average  float64 `json:"average"`
	Answered int     `json:"answered"`
}

// InterviewSummaryOutput is the output of interview_summary.
type InterviewSummaryOutput struct {
	Profile    string  `json:"profile"`
	Readiness  float64 `json:"readiness"`
	Answered   int     `json:"answered"`
	Total      int     `json:"total"`
	Unanswered []int   `json:"unanswered"`
	Assessment string  `json:"assessment"`
}

// assess labels a readiness score.
func assess(avg float64, answered int) string {
	switch {
	case answered == 0:
		return "Aucune question évaluée."
	case avg >= 8:
		return "Prêt pour les entretiens."
	case avg >= 5:
		return "Bonne base, à consolider."
	default:
		return "Préparation à renforcer."
	}
}

func (s *Server) InterviewQuestions(_ context.Context, sessionID string) InterviewQuestionsOutput {
	sess := s.Sessions.Get(sessionID)
	return InterviewQuestionsOutput{
		Profile:   sess.Profile().Name,
		Questions: sess.Interview().Questions,
	}
}

func (s *Server) InterviewScore(_ context.Context, sessionID string, in InterviewScoreInput) (InterviewScoreOutput, error) {
	if err := toolutil.Validate(in); err != nil {
		return InterviewScoreOutput{}, err
	}
	sess := s.Sessions.Get(sessionID)
	q, avg, err := sess.RecordScore(in.Index, in.Question, in.Score)
	if err != nil {
		return InterviewScoreOutput{}, err
	}
	return InterviewScoreOutput{
		Question: q,
		Score:    in.Score,
		Average:  avg,
		Answered: sess.Interview().Answered,
	}, nil
}

func (s *Server) InterviewSummary(_ context.Context, sessionID string) InterviewSummaryOutput {
	sess := s.Sessions.Get(sessionID)
	sum := sess.Interview()
	out := InterviewSummaryOutput{
		Profile:    sess.Profile().Name,
		Readiness:  sum.Average,
		Answered:   sum.Answered,
		Total:      sum.Total,
		Unanswered: []int{},
		Assessment: assess(sum.Average, sum.Answered),
	}
	for _, q := range sum.Questions {
		if q.Score == nil {
			out.Unanswered = append(out.Unanswered, q.Index)
		}
	}
	return out
}

func registerInterviewQuestions(server *mcp.Server, s *Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "interview_questions",
		Description: "List the interview practice questions of the selected profile with the score recorded for each.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, InterviewQuestionsOutput, error) {
		return nil, s.InterviewQuestions(ctx, toolutil.SessionID(req)), nil
	})
}

func registerInterviewScore(server *mcp.Server, s *Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "interview_score",
		Description: "Record a 0-10 self-assessment for an interview question (overwrites a previous score). Scores outside 0-10 are rejected.",
		Annotations: &mcp.ToolAnnotations{IdempotentHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, in InterviewScoreInput) (*mcp.CallToolResult, InterviewScoreOutput, error) {
		out, err := s.InterviewScore(ctx, toolutil.SessionID(req), in)
		return nil, out, err
	})
}

func registerInterviewSummary(server *mcp.Server, s *Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "interview_summary",
		Description: "Readiness score: the average of all recorded interview scores (0 when none), with answered and unanswered questions.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, InterviewSummaryOutput, error) {
		return nil, s.InterviewSummary(ctx, toolutil.SessionID(req)), nil
	})
}
