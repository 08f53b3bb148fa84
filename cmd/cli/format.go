package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/survey-platform/surveyctl/internal/client"
	"github.com/survey-platform/surveyctl/internal/common"
	"github.com/survey-platform/surveyctl/internal/models"
	"github.com/survey-platform/surveyctl/internal/survey"
)

const dateFormat = "2006-01-02 15:04"

func parseID(value string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}

// describeError turns an error into something a user can act on.
func describeError(err error) string {

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%s (HTTP %d)", apiErr.Message(), apiErr.StatusCode)
	}

	var validation survey.ValidationErrors
	if errors.As(err, &validation) {
		lines := make([]string, 0, len(validation)+1)
		lines = append(lines, "the answers are not valid:")
		for _, fieldErr := range validation {
			lines = append(lines, "  - "+fieldErr.Error())
		}
		return strings.Join(lines, "\n")
	}

	return err.Error()
}

func displayCurrentUser() string {
	if app == nil {
		return "unknown"
	}
	if user := app.session.CurrentUser(); user != nil {
		return user.DisplayName()
	}
	return "the current user"
}

func renderActive(active bool) string {
	if active {
		return activeBadgeStyle.Render("ACTIVE")
	}
	return inactiveBadgeStyle.Render("INACTIVE")
}

func renderSurveyLine(s models.Survey) string {
	return fmt.Sprintf("%s  %s  %s",
		mutedStyle.Render(fmt.Sprintf("#%-4d", s.ID)),
		renderActive(s.IsActive),
		common.Truncate(s.Title, 60),
	)
}

func printSurvey(s *models.Survey) {
	fmt.Println(surveyTitleStyle.Render(s.Title) + " " + renderActive(s.IsActive))
	if len(s.Description) > 0 {
		fmt.Println(s.Description)
	}
	if s.StartDate != nil || s.EndDate != nil {
		fmt.Println(mutedStyle.Render(formatWindow(s)))
	}
	fmt.Println()

	for _, q := range s.OrderedQuestions() {
		marker := ""
		if q.Required {
			marker = requiredStyle.Render(" *")
		}
		fmt.Println(headerStyle.Render(fmt.Sprintf("%d. %s", q.OrderNum, q.Text)) + marker)
		fmt.Println(questionStyle.Render(mutedStyle.Render(fmt.Sprintf("#%d %s", q.ID, q.Type))))
		for _, option := range q.OptionTexts() {
			fmt.Println(questionStyle.Render("- " + option))
		}
	}
}

func formatWindow(s *models.Survey) string {
	start, end := "open", "open"
	if s.StartDate != nil {
		start = s.StartDate.Local().Format(dateFormat)
	}
	if s.EndDate != nil {
		end = s.EndDate.Local().Format(dateFormat)
	}
	return fmt.Sprintf("Runs %s → %s", start, end)
}

// renderBar draws a proportional bar for analytics output.
func renderBar(percentage float64, width int) string {
	if percentage < 0 {
		percentage = 0
	} else if percentage > 100 {
		percentage = 100
	}
	filled := int(percentage / 100 * float64(width))
	return barStyle.Render(strings.Repeat("█", filled)) +
		barTrackStyle.Render(strings.Repeat("░", width-filled))
}
