// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

/*
Package shell decides which dashboard surface a session is routed to.

Routing is a pure function of the session role. An authenticated session with
a role that maps to no surface lands on the Unauthorized shell, a terminal
state whose only exit is signing out; it never falls through to a working
dashboard. Each working shell carries its navigation tabs, the default tab,
and static help content, all declared here as data.
*/
package shell

import "github.com/vetasur/minepanel/internal/session"

// Variant names the four routing outcomes.
type Variant string

const (
	VariantUnauthenticated Variant = "unauthenticated"
	VariantAdmin           Variant = "admin"
	VariantSupervisor      Variant = "supervisor"
	VariantUnauthorized    Variant = "unauthorized"
)

// Layout names the two rendering modes of a working shell.
type Layout string

const (
	LayoutWide   Layout = "wide"
	LayoutNarrow Layout = "narrow"
)

// wideBreakpoint is the minimum viewport width, in CSS pixels, for the wide
// layout.
const wideBreakpoint = 1024

// Tab is one navigation entry of a shell.
type Tab struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Shell describes the surface a session is routed to.
type Shell struct {
	Variant    Variant  `json:"variant"`
	Tabs       []Tab    `json:"tabs,omitempty"`
	DefaultTab string   `json:"default_tab,omitempty"`
	Help       []string `json:"help,omitempty"`
}

var supervisorShell = Shell{
	Variant: VariantSupervisor,
	Tabs: []Tab{
		{ID: "access-control", Label: "Control de Acceso"},
		{ID: "inventory", Label: "Inventario"},
		{ID: "gas-registry", Label: "Registro de Gases"},
		{ID: "work-fronts", Label: "Frentes de Trabajo"},
		{ID: "inventario-herramientas", Label: "Inventario de Herramientas"},
	},
	DefaultTab: "access-control",
	Help:       helpBullets,
}

var adminShell = Shell{
	Variant: VariantAdmin,
	Tabs: []Tab{
		{ID: "dashboard", Label: "Dashboard"},
		{ID: "projects", Label: "Proyectos"},
		{ID: "personnel", Label: "Personal"},
		{ID: "reports", Label: "Reportes"},
		{ID: "production", Label: "Producción"},
	},
	DefaultTab: "dashboard",
	Help:       helpBullets,
}

var helpBullets = []string{
	"Consulta el manual de usuario para una guía completa del panel.",
	"Contacta a soporte técnico en soporte@minepanel.example.",
	"Revisa los videos tutoriales disponibles en la intranet.",
	"Preguntas frecuentes: sección FAQ del manual.",
}

// For routes a session to its shell. A nil session is unauthenticated; an
// authenticated session with an unmapped role is unauthorized, with no tabs
// to navigate.
func For(sess *session.Session) Shell {
	if sess == nil {
		return Shell{Variant: VariantUnauthenticated}
	}
	switch sess.Role {
	case session.RoleAdmin:
		return adminShell
	case session.RoleSupervisor:
		return supervisorShell
	default:
		return Shell{Variant: VariantUnauthorized}
	}
}

// Normalize maps a requested tab onto the shell's navigation: unknown or
// empty tabs fall back to the default. Shells without tabs always yield "".
func (shell Shell) Normalize(tab string) string {
	if len(shell.Tabs) == 0 {
		return ""
	}
	for _, candidate := range shell.Tabs {
		if candidate.ID == tab {
			return tab
		}
	}
	return shell.DefaultTab
}

// LayoutFor picks the rendering mode from the viewport width. The decision
// is a pure threshold on width; nothing about the window's chrome or
// maximization state is consulted.
func LayoutFor(width int) Layout {
	if width >= wideBreakpoint {
		return LayoutWide
	}
	return LayoutNarrow
}
