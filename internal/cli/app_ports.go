package cli

import "github.com/alexanderramin/habitus/internal/app"

func (a *App) todayUseCase() app.TodayUseCase {
	if a.TodayUC != nil {
		return a.TodayUC
	}
	return a.Evaluation
}

func (a *App) statsUseCase() app.StatsUseCase {
	if a.StatsUC != nil {
		return a.StatsUC
	}
	return a.Evaluation
}

func (a *App) logCompletionUseCase() app.LogCompletionUseCase {
	if a.LogCompletionUC != nil {
		return a.LogCompletionUC
	}
	return a.Logs
}

func (a *App) logSkipUseCase() app.LogSkipUseCase {
	if a.LogSkipUC != nil {
		return a.LogSkipUC
	}
	return a.Logs
}

func (a *App) editStructuralUseCase() app.EditStructuralUseCase {
	if a.EditStructuralUC != nil {
		return a.EditStructuralUC
	}
	return a.Activities
}

func (a *App) importUseCase() app.ImportUseCase {
	if a.ImportUC != nil {
		return a.ImportUC
	}
	return a.Exchange
}

func (a *App) digestUseCase() app.DigestUseCase {
	if a.DigestUC != nil {
		return a.DigestUC
	}
	return a.Digests
}
