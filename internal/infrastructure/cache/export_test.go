package cache

// InvalidateBranch expone invalidate para las pruebas del paquete cache_test.
var InvalidateBranch = (*BranchRepository).invalidate
