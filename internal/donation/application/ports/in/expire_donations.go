package in

import (
	"context"
	"time"
)

// ExpireDonationsInput — входные данные для истечения просроченных донаций
type ExpireDonationsInput struct {
	Now time.Time
}

// ExpireDonationsOutput — результат прохода
type ExpireDonationsOutput struct {
	Expired int
}

// ExpireDonationsUseCase — интерфейс use-case истечения донаций (вызывается sweeper-ом)
type ExpireDonationsUseCase interface {
	Execute(ctx context.Context, input ExpireDonationsInput) (*ExpireDonationsOutput, error)
}
