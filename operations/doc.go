/*
Package operations records the execution of migration steps so that runs can be audited and
resumed.

An Operation is a single step with at most one side effect, such as deploying a contract or
sending one configuration transaction. Every execution produces a Report holding the step's
Definition, input, output and error, which is stored by a Reporter.

Before running an operation, ExecuteOperation looks for a successful Report with the same
Definition and input. When one exists the operation is skipped and the recorded output is
returned, which makes re-running an interrupted migration safe. Failed executions are never
skipped and never retried.

# Basic Usage

	op := operations.NewOperation("deploy-math", semver.MustParse("1.0.0"), "Deploy Math",
		func(b operations.Bundle, deps Deps, input DeployInput) (DeployOutput, error) {
			...
		},
	)

	reporter, err := operations.NewFileReporter("reports.json")
	bundle := operations.NewBundle(ctx, lggr, reporter)
	report, err := operations.ExecuteOperation(bundle, op, deps, input)
*/
package operations
