package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	pb "github.com/oggyb/roommate-match/internal/proto/roommate"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

// scoreStyle colors a compatibility score: green from 80, yellow from 60.
func scoreStyle(score int32) lipgloss.Style {
	switch {
	case score >= 80:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	case score >= 60:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	}
}

func printMatches(userID string, matches []*pb.Match) {
	if len(matches) == 0 {
		fmt.Println(dimStyle.Render("No matches."))
		return
	}
	for _, m := range matches {
		other := m.A
		if other.GetUserId() == userID {
			other = m.B
		}
		fmt.Printf("%s %s %s\n",
			scoreStyle(m.CompatibilityScore).Render(fmt.Sprintf("%3d", m.CompatibilityScore)),
			labelStyle.Render(describe(other)),
			dimStyle.Render(m.Id),
		)
		for _, r := range m.MatchReasons {
			fmt.Printf("    %s\n", valueStyle.Render("• "+r))
		}
	}
}

func printProfile(p *pb.Profile) {
	fmt.Println(labelStyle.Render(describe(p)))
	if loc := p.Location; loc != nil && loc.City != "" {
		fmt.Printf("    %s\n", valueStyle.Render(loc.City+" "+strings.Join(loc.Neighborhoods, ", ")))
	}
	if b := p.Budget; b != nil && b.MaxRent > 0 {
		fmt.Printf("    %s\n", valueStyle.Render(fmt.Sprintf("up to $%.0f", b.MaxRent)))
	}
	if len(p.Interests) > 0 {
		fmt.Printf("    %s\n", dimStyle.Render(strings.Join(p.Interests, ", ")))
	}
}

func printNextToken(token *string) {
	if token != nil {
		fmt.Printf("\n%s %s\n", dimStyle.Render("next page: --token"), *token)
	}
}

func describe(p *pb.Profile) string {
	name := p.GetUserId()
	if p.Name != "" {
		name = fmt.Sprintf("%s (%s)", p.Name, p.GetUserId())
	}
	if p.GetListingId() != "" {
		name += " @ " + p.GetListingId()
	}
	return name
}
