package stats

/*
This file defines all the metrics being collected over a sweep. As new metrics are added please follow this pattern.
*/

const (
	/************************* Sweep metrics **************************/
	/*
		the number of experiment configurations generated for the sweep
	*/
	SweepExperimentsGauge = "experimentsGauge"

	/*
		the number of worker goroutines the coordinator started
	*/
	SweepWorkersGauge = "workersGauge"

	/*
		the number of workers currently running an experiment
	*/
	SweepWorkersBusyGauge = "workersBusyGauge"

	/*
		wall clock time of the whole sweep, from the first dispatch to the last collected result
	*/
	SweepLatency_ms = "sweepLatency_ms"

	/************************* Experiment metrics **************************/
	/*
		the number of experiments handed to a simulator
	*/
	ExperimentStartedCounter = "experimentStartedCounter"

	/*
		the number of experiments whose simulation ran to completion
	*/
	ExperimentCompletedCounter = "experimentCompletedCounter"

	/*
		the number of experiments abandoned because they hit the per-run timeout
	*/
	ExperimentTimedOutCounter = "experimentTimedOutCounter"

	/*
		the number of experiments whose simulation returned an error or panicked
	*/
	ExperimentFailedCounter = "experimentFailedCounter"

	/*
		time spent in a single experiment, including timed out ones
	*/
	ExperimentRunLatency_ms = "experimentRunLatency_ms"

	/*
		average job completion time of the last completed experiment
	*/
	ExperimentLastJCTGauge = "lastAverageJCTGauge"

	/************************* Simulator metrics **************************/
	/*
		the number of simulator instances constructed
	*/
	SimulatorCreatedCounter = "simulatorCreatedCounter"

	/*
		the number of times a simulator process was killed after its run was abandoned
	*/
	SimulatorKilledCounter = "simulatorKilledCounter"

	/*
		the number of times reading a simulator's metrics file had to be retried
	*/
	SimulatorMetricsRetryCounter = "metricsRetryCounter"

	/************************* Log directory metrics **************************/
	/*
		the number of per-experiment log files created
	*/
	LogFilesCreatedCounter = "logFilesCreatedCounter"

	/*
		the number of times opening a log file was retried because the process ran out of descriptors
	*/
	LogFileOpenRetryCounter = "logFileOpenRetryCounter"
)
