package mocks

//go:generate mockery --name Source --srcpkg github.com/aevon-lab/stockpulse/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
