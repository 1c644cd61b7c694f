// Package processor содержит референсный processor runtime.
//
// Runtime обслуживает один процессор: потребляет execute-команды из
// очереди execute.<processorID>, читает входные данные из своего региона
// кэша, прогоняет их через зарегистрированный Handler, пишет результат
// обратно под тем же составным ключом и публикует step.executed или
// step.failed. Параллельно Reporter периодически публикует health record
// процессора.
//
// Runtime не знает о графе потока: следующий шаг, перенос данных и
// завершение веток — забота оркестратора.
package processor
