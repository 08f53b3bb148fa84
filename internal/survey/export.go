package survey

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/survey-platform/surveyctl/internal/models"
)

// WriteCSV writes one row per response with a column per question.
func WriteCSV(w io.Writer, s *models.Survey, responses []models.Response) error {

	questions := s.OrderedQuestions()

	header := []string{"response_id", "submitted_at", "user_id"}
	for _, q := range questions {
		header = append(header, q.Text)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, response := range responses {
		byQuestion := make(map[int]models.Answer, len(response.Answers))
		for _, answer := range response.Answers {
			byQuestion[answer.QuestionID] = answer
		}

		userID := ""
		if response.UserID != nil {
			userID = strconv.Itoa(*response.UserID)
		}

		row := []string{response.ID, response.SubmittedAt.UTC().Format(time.RFC3339), userID}
		for _, q := range questions {
			row = append(row, byQuestion[q.ID].String())
		}

		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
